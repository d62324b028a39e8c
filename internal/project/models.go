package project

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a generation project.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusGenerating,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Artifact is a single generated file carried by a completed project.
type Artifact struct {
	Name       string     `json:"name"`
	Content    string     `json:"content"`
	Language   string     `json:"language,omitempty"`
	Size       int64      `json:"size"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// Project represents a generation request persisted in SQLite.
type Project struct {
	ID             string
	Prompt         string
	Backend        string
	Status         Status
	Summary        string
	Artifacts      []Artifact
	Metadata       map[string]string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	GeneratingFrom *time.Time
}

// IsTerminal reports whether the project has reached a terminal status.
func (p Project) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// HealthSummary describes aggregated project counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Generating int
	Completed  int
	Failed     int
}

// DatabaseHealth captures diagnostic information about the project database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalProjects    int
	Error            string
}
