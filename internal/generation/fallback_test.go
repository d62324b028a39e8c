package generation

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFallbackArtifactsAreDeterministic(t *testing.T) {
	first := FallbackArtifacts("Build a chat app")
	second := FallbackArtifacts("Build a chat app")
	if len(first) != len(second) {
		t.Fatalf("expected identical artifact counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("artifact %d differs between runs: %#v vs %#v", i, first[i], second[i])
		}
	}
}

func TestFallbackArtifactsEmbedPrompt(t *testing.T) {
	prompt := "Build a recipe organizer"
	artifacts := FallbackArtifacts(prompt)
	if len(artifacts) == 0 {
		t.Fatal("expected non-empty fallback artifact set")
	}

	var readme *string
	for i := range artifacts {
		if artifacts[i].Name == "README.md" {
			readme = &artifacts[i].Content
		}
		if artifacts[i].Content == "" {
			t.Fatalf("artifact %q has empty content", artifacts[i].Name)
		}
		if artifacts[i].Size != int64(len(artifacts[i].Content)) {
			t.Fatalf("artifact %q size mismatch", artifacts[i].Name)
		}
	}
	if readme == nil || !strings.Contains(*readme, prompt) {
		t.Fatal("expected README to embed the original prompt")
	}
}

func TestFallbackPackageJSONParses(t *testing.T) {
	artifacts := FallbackArtifacts(`Tricky "quoted" prompt with
newline`)
	for _, artifact := range artifacts {
		if artifact.Name != "package.json" {
			continue
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(artifact.Content), &decoded); err != nil {
			t.Fatalf("fallback package.json does not parse: %v", err)
		}
		return
	}
	t.Fatal("expected fallback set to include package.json")
}

func TestFallbackSummary(t *testing.T) {
	if got := FallbackSummary(""); got != "generated fallback project skeleton" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if got := FallbackSummary("backend call exceeded deadline"); !strings.Contains(got, "deadline") {
		t.Fatalf("expected reason embedded in summary, got %q", got)
	}
}
