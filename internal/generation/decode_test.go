package generation

import (
	"strings"
	"testing"
)

func TestDecodeFilePlanDirectJSON(t *testing.T) {
	payload := `[{"name":"main.py","content":"print('hi')\n","language":"python"}]`
	artifacts, err := DecodeFilePlan(payload)
	if err != nil {
		t.Fatalf("DecodeFilePlan failed: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(artifacts))
	}
	got := artifacts[0]
	if got.Name != "main.py" || got.Language != "python" {
		t.Fatalf("unexpected artifact: %#v", got)
	}
	if got.Size != int64(len("print('hi')\n")) {
		t.Fatalf("expected size to match content length, got %d", got.Size)
	}
	if got.ModifiedAt == nil {
		t.Fatal("expected modified timestamp to be set")
	}
}

func TestDecodeFilePlanStripsCodeFences(t *testing.T) {
	payload := "```json\n[{\"name\":\"README.md\",\"content\":\"# Hi\\n\",\"language\":\"markdown\"}]\n```"
	artifacts, err := DecodeFilePlan(payload)
	if err != nil {
		t.Fatalf("DecodeFilePlan failed: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "README.md" {
		t.Fatalf("unexpected artifacts: %#v", artifacts)
	}
}

func TestDecodeFilePlanExtractsEmbeddedArray(t *testing.T) {
	payload := `Here is your project structure:
[{"name":"index.js","content":"console.log(1)\n","language":"javascript"}]
Let me know if you need changes.`
	artifacts, err := DecodeFilePlan(payload)
	if err != nil {
		t.Fatalf("DecodeFilePlan failed: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "index.js" {
		t.Fatalf("unexpected artifacts: %#v", artifacts)
	}
}

func TestDecodeFilePlanRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"empty payload", "   "},
		{"not json", "sure, here are the files you asked for"},
		{"empty array", "[]"},
		{"missing name", `[{"content":"x"}]`},
		{"missing content", `[{"name":"a.txt"}]`},
		{"path escape", `[{"name":"../evil.sh","content":"x"}]`},
		{"absolute path", `[{"name":"/etc/passwd","content":"x"}]`},
		{"invalid declared json", `[{"name":"package.json","content":"{not json","language":"json"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeFilePlan(tc.payload); err == nil {
				t.Fatalf("expected decode error for %q", tc.payload)
			}
		})
	}
}

func TestSummarizePayloadSnippetTruncates(t *testing.T) {
	long := strings.Repeat("abc ", 100)
	snippet := summarizePayloadSnippet(long)
	if !strings.HasSuffix(snippet, "...") {
		t.Fatalf("expected truncated snippet, got %q", snippet)
	}
	if summarizePayloadSnippet("  ") != "<empty>" {
		t.Fatal("expected empty marker for blank payload")
	}
}
