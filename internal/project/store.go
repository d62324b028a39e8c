package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"genforge/internal/services"
)

// Create inserts a new project in Pending status and returns the stored
// record. Metadata is stored verbatim and never interpreted.
func (s *Store) Create(ctx context.Context, prompt, backendHint string, metadata map[string]string) (*Project, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create", "prompt must not be empty", nil)
	}

	var metadataJSON any
	if len(metadata) > 0 {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "store", "create", "encode metadata", err)
		}
		metadataJSON = string(encoded)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO projects (
            id, prompt, backend, status, summary, artifacts_json, metadata_json,
            created_at, updated_at, generating_from
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		prompt,
		nullableString(strings.TrimSpace(backendHint)),
		StatusPending,
		nil,
		nil,
		metadataJSON,
		timestamp,
		timestamp,
		nil,
	)
	if err != nil {
		return nil, unavailable("create", err)
	}

	return s.Get(ctx, id)
}

// Get fetches a project by identifier.
func (s *Store) Get(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	proj, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get", fmt.Sprintf("project %s", id), nil)
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	return proj, nil
}

// List returns projects ordered newest first. A non-positive limit applies a
// default page size.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*Project, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, unavailable("list", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	return projects, nil
}

// ListByStatus returns projects matching a status ordered by creation time.
func (s *Store) ListByStatus(ctx context.Context, status Status) ([]*Project, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+projectColumns+` FROM projects WHERE status = ? ORDER BY created_at`,
		status,
	)
	if err != nil {
		return nil, unavailable("list by status", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, unavailable("list by status", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list by status", err)
	}
	return projects, nil
}

// MarkGenerating transitions a project from Pending to Generating. The update
// is a compare-and-set on the current status so concurrent runners cannot both
// claim the same record.
func (s *Store) MarkGenerating(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET status = ?, generating_from = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		StatusGenerating,
		now,
		now,
		id,
		StatusPending,
	)
	if err != nil {
		return unavailable("mark generating", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return unavailable("mark generating", err)
	}
	if affected == 0 {
		return s.classifyMissedTransition(ctx, id, "mark generating")
	}
	return nil
}

// UpdateTerminal transitions a project from Generating to a terminal status,
// persisting the generation result. The compare-and-set guard means the first
// terminal write wins; later attempts observe Conflict and must discard their
// payload.
func (s *Store) UpdateTerminal(ctx context.Context, id string, status Status, artifacts []Artifact, summary string) error {
	if !status.IsTerminal() {
		return services.Wrap(services.ErrValidation, "store", "update terminal", fmt.Sprintf("status %q is not terminal", status), nil)
	}
	if status == StatusCompleted && len(artifacts) == 0 {
		return services.Wrap(services.ErrValidation, "store", "update terminal", "completed projects require at least one artifact", nil)
	}
	if status == StatusFailed && len(artifacts) > 0 {
		return services.Wrap(services.ErrValidation, "store", "update terminal", "failed projects must not carry artifacts", nil)
	}

	var artifactsJSON any
	if len(artifacts) > 0 {
		encoded, err := json.Marshal(artifacts)
		if err != nil {
			return services.Wrap(services.ErrValidation, "store", "update terminal", "encode artifacts", err)
		}
		artifactsJSON = string(encoded)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET status = ?, summary = ?, artifacts_json = ?, generating_from = NULL, updated_at = ?
         WHERE id = ? AND status = ?`,
		status,
		nullableString(summary),
		artifactsJSON,
		now,
		id,
		StatusGenerating,
	)
	if err != nil {
		return unavailable("update terminal", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return unavailable("update terminal", err)
	}
	if affected == 0 {
		return s.classifyMissedTransition(ctx, id, "update terminal")
	}
	return nil
}

// classifyMissedTransition distinguishes a missing record from a CAS miss.
func (s *Store) classifyMissedTransition(ctx context.Context, id, op string) error {
	var current string
	row := s.db.QueryRowContext(ctx, `SELECT status FROM projects WHERE id = ?`, id)
	if err := row.Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrNotFound, "store", op, fmt.Sprintf("project %s", id), nil)
		}
		return unavailable(op, err)
	}
	return services.Wrap(services.ErrConflict, "store", op, fmt.Sprintf("project %s is %s", id, current), nil)
}

// GeneratingOlderThan returns projects that have sat in Generating since before
// the cutoff. Used by the stuck-generation sweeper; read-only.
func (s *Store) GeneratingOlderThan(ctx context.Context, cutoff time.Time) ([]*Project, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+projectColumns+` FROM projects
         WHERE status = ? AND generating_from IS NOT NULL AND generating_from < ?
         ORDER BY generating_from`,
		StatusGenerating,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, unavailable("generating older than", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, unavailable("generating older than", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("generating older than", err)
	}
	return projects, nil
}

// Stats returns a count of projects grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM projects GROUP BY status`)
	if err != nil {
		return nil, unavailable("stats", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, unavailable("stats", err)
		}
		stats[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("stats", err)
	}
	return stats, nil
}

// Health aggregates project state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusGenerating:
			health.Generating += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		}
	}
	return health, nil
}

// CheckHealth returns diagnostic information about the project database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("project database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat project database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("project database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("project database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping project database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'projects'")
	if err := row.Scan(&tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			health.TableExists = false
		} else {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
	} else {
		health.TableExists = true
	}

	if health.TableExists {
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM projects")
		if err := row.Scan(&health.TotalProjects); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count projects: %w", err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

const projectColumns = "id, prompt, backend, status, summary, artifacts_json, metadata_json, created_at, updated_at, generating_from"

func scanProject(scanner interface{ Scan(dest ...any) error }) (*Project, error) {
	var (
		id            string
		prompt        string
		backend       sql.NullString
		statusStr     string
		summary       sql.NullString
		artifactsJSON sql.NullString
		metadataJSON  sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
		generatingRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&prompt,
		&backend,
		&statusStr,
		&summary,
		&artifactsJSON,
		&metadataJSON,
		&createdRaw,
		&updatedRaw,
		&generatingRaw,
	); err != nil {
		return nil, err
	}

	proj := &Project{
		ID:      id,
		Prompt:  prompt,
		Backend: backend.String,
		Status:  Status(statusStr),
		Summary: summary.String,
	}

	if artifactsJSON.Valid && artifactsJSON.String != "" {
		if err := json.Unmarshal([]byte(artifactsJSON.String), &proj.Artifacts); err != nil {
			return nil, fmt.Errorf("decode artifacts for %s: %w", id, err)
		}
	}

	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &proj.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", id, err)
		}
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		proj.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		proj.UpdatedAt = updated
	}
	if generatingRaw.Valid {
		if since, err := parseTimeString(generatingRaw.String); err == nil {
			proj.GeneratingFrom = &since
		}
	}
	return proj, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
