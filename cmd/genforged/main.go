package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"genforge/internal/config"
	"genforge/internal/coordinator"
	"genforge/internal/daemon"
	"genforge/internal/generation"
	"genforge/internal/logging"
	"genforge/internal/project"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := project.Open(cfg)
	if err != nil {
		logger.Error("open project store", logging.Error(err))
		return
	}

	client := generation.NewClient(
		buildRegistry(cfg),
		time.Duration(cfg.Generation.DeadlineSeconds)*time.Second,
		logger,
	)
	coord := coordinator.New(cfg, store, client, logger)

	d, err := daemon.New(cfg, store, coord, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("genforged shutting down")
}

func buildRegistry(cfg *config.Config) *generation.Registry {
	return generation.NewRegistry(
		cfg.Generation.Backend,
		generation.NewOllamaBackend(cfg.Backends.Ollama),
		generation.NewChatBackend(cfg.Backends.Chat),
	)
}
