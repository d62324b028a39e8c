package project_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"genforge/internal/project"
	"genforge/internal/services"
	"genforge/internal/testsupport"
)

func TestCreateAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	proj, err := store.Create(ctx, "Create a calculator app", "ollama", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if proj.ID == "" {
		t.Fatal("expected project ID to be assigned")
	}
	if proj.Status != project.StatusPending {
		t.Fatalf("expected pending status, got %s", proj.Status)
	}
	if proj.CreatedAt.IsZero() || proj.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	fetched, err := store.Get(ctx, proj.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Prompt != "Create a calculator app" || fetched.Backend != "ollama" {
		t.Fatalf("unexpected fetched project: %#v", fetched)
	}
}

func TestCreatePersistsMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	metadata := map[string]string{"origin": "web", "session": "abc-123"}
	proj, err := store.Create(ctx, "Build a wiki", "", metadata)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fetched, err := store.Get(ctx, proj.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(fetched.Metadata) != 2 || fetched.Metadata["origin"] != "web" || fetched.Metadata["session"] != "abc-123" {
		t.Fatalf("unexpected metadata: %#v", fetched.Metadata)
	}

	bare, err := store.Create(ctx, "No metadata", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if bare.Metadata != nil {
		t.Fatalf("expected nil metadata, got %#v", bare.Metadata)
	}
}

func TestCreateRejectsEmptyPrompt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Create(context.Background(), "   ", "", nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUnknownProjectReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Get(context.Background(), "no-such-id"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkGeneratingIsCompareAndSet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	proj, err := store.Create(ctx, "Build a todo list", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkGenerating(ctx, proj.ID); err != nil {
		t.Fatalf("MarkGenerating failed: %v", err)
	}

	updated, err := store.Get(ctx, proj.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if updated.Status != project.StatusGenerating {
		t.Fatalf("expected generating, got %s", updated.Status)
	}
	if updated.GeneratingFrom == nil {
		t.Fatal("expected generating_from to be recorded")
	}

	if err := store.MarkGenerating(ctx, proj.ID); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict on second claim, got %v", err)
	}
	if err := store.MarkGenerating(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestUpdateTerminalFirstWriteWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	proj, err := store.Create(ctx, "Build a blog", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkGenerating(ctx, proj.ID); err != nil {
		t.Fatalf("MarkGenerating failed: %v", err)
	}

	first := []project.Artifact{{Name: "README.md", Content: "# Blog\n", Language: "markdown", Size: 7}}
	if err := store.UpdateTerminal(ctx, proj.ID, project.StatusCompleted, first, "generated 1 file"); err != nil {
		t.Fatalf("UpdateTerminal failed: %v", err)
	}

	second := []project.Artifact{{Name: "other.txt", Content: "late", Size: 4}}
	err = store.UpdateTerminal(ctx, proj.ID, project.StatusCompleted, second, "racing duplicate")
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict on double terminal write, got %v", err)
	}

	final, err := store.Get(ctx, proj.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if final.Status != project.StatusCompleted {
		t.Fatalf("expected completed, got %s", final.Status)
	}
	if final.Summary != "generated 1 file" {
		t.Fatalf("expected first summary preserved, got %q", final.Summary)
	}
	if len(final.Artifacts) != 1 || final.Artifacts[0].Name != "README.md" {
		t.Fatalf("expected first artifact set preserved, got %#v", final.Artifacts)
	}
	if final.GeneratingFrom != nil {
		t.Fatal("expected generating_from cleared on terminal write")
	}
}

func TestUpdateTerminalValidatesPayload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	proj, err := store.Create(ctx, "Build a game", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkGenerating(ctx, proj.ID); err != nil {
		t.Fatalf("MarkGenerating failed: %v", err)
	}

	if err := store.UpdateTerminal(ctx, proj.ID, project.StatusCompleted, nil, "no files"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for completed without artifacts, got %v", err)
	}
	artifacts := []project.Artifact{{Name: "main.go", Content: "package main\n", Size: 13}}
	if err := store.UpdateTerminal(ctx, proj.ID, project.StatusFailed, artifacts, "boom"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for failed with artifacts, got %v", err)
	}
	if err := store.UpdateTerminal(ctx, proj.ID, project.StatusPending, nil, ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for non-terminal status, got %v", err)
	}
}

func TestArtifactsRoundTripByteIdentical(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	proj, err := store.Create(ctx, "Build something odd", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkGenerating(ctx, proj.ID); err != nil {
		t.Fatalf("MarkGenerating failed: %v", err)
	}

	content := "line one\n\ttabbed\nunicode: é世界\nquotes: \"quoted\" 'single'\n"
	modified := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	artifacts := []project.Artifact{
		{Name: "src/App.tsx", Content: content, Language: "typescript", Size: int64(len(content)), ModifiedAt: &modified},
		{Name: "empty-language.txt", Content: "plain", Size: 5},
	}
	if err := store.UpdateTerminal(ctx, proj.ID, project.StatusCompleted, artifacts, "done"); err != nil {
		t.Fatalf("UpdateTerminal failed: %v", err)
	}

	fetched, err := store.Get(ctx, proj.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(fetched.Artifacts) != len(artifacts) {
		t.Fatalf("expected %d artifacts, got %d", len(artifacts), len(fetched.Artifacts))
	}
	for i, want := range artifacts {
		got := fetched.Artifacts[i]
		if got.Name != want.Name || got.Content != want.Content || got.Language != want.Language || got.Size != want.Size {
			t.Fatalf("artifact %d mismatch: got %#v want %#v", i, got, want)
		}
	}
	if fetched.Artifacts[0].ModifiedAt == nil || !fetched.Artifacts[0].ModifiedAt.Equal(modified) {
		t.Fatalf("expected modified timestamp preserved, got %v", fetched.Artifacts[0].ModifiedAt)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		proj, err := store.Create(ctx, fmt.Sprintf("Prompt %d", i), "", nil)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, proj.ID)
		time.Sleep(2 * time.Millisecond)
	}

	listed, err := store.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(listed))
	}
	if listed[0].ID != ids[2] || listed[2].ID != ids[0] {
		t.Fatalf("expected newest-first ordering, got %v then %v", listed[0].ID, listed[2].ID)
	}

	page, err := store.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("List with offset failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != ids[1] {
		t.Fatalf("expected middle project on offset page, got %#v", page)
	}
}

func TestGeneratingOlderThan(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stale, err := store.Create(ctx, "Stale project", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkGenerating(ctx, stale.ID); err != nil {
		t.Fatalf("MarkGenerating failed: %v", err)
	}

	fresh, err := store.Create(ctx, "Fresh project", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_ = fresh

	time.Sleep(5 * time.Millisecond)
	found, err := store.GeneratingOlderThan(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("GeneratingOlderThan failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != stale.ID {
		t.Fatalf("expected only stale generating project, got %#v", found)
	}

	none, err := store.GeneratingOlderThan(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("GeneratingOlderThan failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no projects before early cutoff, got %d", len(none))
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a, err := store.Create(ctx, "Project A", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "Project B", "", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkGenerating(ctx, a.ID); err != nil {
		t.Fatalf("MarkGenerating failed: %v", err)
	}
	artifacts := []project.Artifact{{Name: "main.go", Content: "package main\n", Size: 13}}
	if err := store.UpdateTerminal(ctx, a.ID, project.StatusCompleted, artifacts, "ok"); err != nil {
		t.Fatalf("UpdateTerminal failed: %v", err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 2 || health.Pending != 1 || health.Completed != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := project.ParseStatus(" Completed "); !ok || status != project.StatusCompleted {
		t.Fatalf("expected completed, got %s (ok=%v)", status, ok)
	}
	if _, ok := project.ParseStatus("mystery"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
	if !project.StatusFailed.IsTerminal() || project.StatusGenerating.IsTerminal() {
		t.Fatal("terminal classification incorrect")
	}
}
