package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"genforge/internal/project"
)

type filePlanEntry struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// DecodeFilePlan parses a backend response into validated artifacts. The
// response is expected to be a JSON array of file entries, but models wrap
// payloads in code fences or prose often enough that decoding tolerates both.
func DecodeFilePlan(content string) ([]project.Artifact, error) {
	var entries []filePlanEntry
	if err := decodeModelJSON(content, &entries); err != nil {
		return nil, fmt.Errorf("decode file plan: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("decode file plan: no file entries")
	}

	now := time.Now().UTC()
	artifacts := make([]project.Artifact, 0, len(entries))
	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("decode file plan: entry %d has no name", i)
		}
		if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
			return nil, fmt.Errorf("decode file plan: entry %q has an unsafe path", name)
		}
		if entry.Content == "" {
			return nil, fmt.Errorf("decode file plan: entry %q has no content", name)
		}
		language := strings.ToLower(strings.TrimSpace(entry.Language))
		if language == "json" {
			if !json.Valid([]byte(entry.Content)) {
				return nil, fmt.Errorf("decode file plan: entry %q declares json but does not parse", name)
			}
		}
		modified := now
		artifacts = append(artifacts, project.Artifact{
			Name:       name,
			Content:    entry.Content,
			Language:   language,
			Size:       int64(len(entry.Content)),
			ModifiedAt: &modified,
		})
	}
	return artifacts, nil
}

// decodeModelJSON decodes JSON from a model response, handling common
// formatting quirks.
func decodeModelJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}

	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized == "" || sanitized == trimmed {
		return fmt.Errorf("%w (payload snippet: %s)", directErr, summarizePayloadSnippet(trimmed))
	}

	sanitizedErr := json.Unmarshal([]byte(sanitized), target)
	if sanitizedErr == nil {
		return nil
	}
	return fmt.Errorf("%w (sanitized payload snippet: %s)", sanitizedErr, summarizePayloadSnippet(sanitized))
}

func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFenceBlock(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	if start := strings.Index(trimmed, "["); start >= 0 {
		if end := strings.LastIndex(trimmed, "]"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func summarizePayloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	clean := replacer.Replace(trimmed)
	clean = strings.Join(strings.Fields(clean), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
