package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"genforge/internal/config"
)

func TestChatBackendGenerate(t *testing.T) {
	plan := `[{"name":"main.py","content":"print('hello')\n","language":"python"}]`
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected message layout: %#v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + jsonEscape(plan) + `"}}]}`))
	}))
	defer server.Close()

	backend := NewChatBackend(config.ChatBackend{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	})

	artifacts, err := backend.Generate(context.Background(), "Build a python script")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "main.py" {
		t.Fatalf("unexpected artifacts: %#v", artifacts)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
}

func TestChatBackendRetriesServerErrors(t *testing.T) {
	plan := `[{"name":"a.txt","content":"a","language":"text"}]`
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "upstream overloaded", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + jsonEscape(plan) + `"}}]}`))
	}))
	defer server.Close()

	backend := NewChatBackend(
		config.ChatBackend{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
	)

	artifacts, err := backend.Generate(context.Background(), "Build something")
	if err != nil {
		t.Fatalf("Generate failed after retry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if len(artifacts) != 1 {
		t.Fatalf("unexpected artifacts: %#v", artifacts)
	}
}

func TestChatBackendDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	backend := NewChatBackend(
		config.ChatBackend{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithSleeper(func(time.Duration) {}),
	)

	if _, err := backend.Generate(context.Background(), "Build something"); err == nil {
		t.Fatal("expected error for http 400")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt for client errors, got %d", attempts)
	}
}

func TestChatBackendRequiresAPIKey(t *testing.T) {
	backend := NewChatBackend(config.ChatBackend{BaseURL: "http://127.0.0.1:1", Model: "m"})
	if _, err := backend.Generate(context.Background(), "Build something"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestOllamaBackendGenerate(t *testing.T) {
	plan := `[{"name":"index.js","content":"console.log('hi')\n","language":"javascript"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"` + jsonEscape(plan) + `","done":true}`))
	}))
	defer server.Close()

	backend := NewOllamaBackend(config.OllamaBackend{BaseURL: server.URL, Model: "llama3.1"})

	artifacts, err := backend.Generate(context.Background(), "Build a js app")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "index.js" {
		t.Fatalf("unexpected artifacts: %#v", artifacts)
	}
}

func TestOllamaBackendSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	backend := NewOllamaBackend(config.OllamaBackend{BaseURL: server.URL, Model: "missing"})
	if _, err := backend.Generate(context.Background(), "Build"); err == nil {
		t.Fatal("expected api error to surface")
	}
}

func TestRegistryResolve(t *testing.T) {
	chat := &stubBackend{name: "chat"}
	ollama := &stubBackend{name: "ollama"}
	reg := NewRegistry("ollama", chat, ollama)

	resolved, err := reg.Resolve("CHAT")
	if err != nil || resolved.Name() != "chat" {
		t.Fatalf("expected chat backend, got %v (%v)", resolved, err)
	}
	resolved, err = reg.Resolve("")
	if err != nil || resolved.Name() != "ollama" {
		t.Fatalf("expected default backend for empty hint, got %v (%v)", resolved, err)
	}
	resolved, err = reg.Resolve("mainframe")
	if err != nil || resolved.Name() != "ollama" {
		t.Fatalf("expected default backend for unknown hint, got %v (%v)", resolved, err)
	}

	if _, err := NewRegistry("none").Resolve(""); err == nil {
		t.Fatal("expected error for empty registry")
	}
}
