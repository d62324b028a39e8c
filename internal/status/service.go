package status

import (
	"context"

	"genforge/internal/project"
)

// ProjectReader abstracts store interactions needed for status queries.
type ProjectReader interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, limit, offset int) ([]*project.Project, error)
	Health(ctx context.Context) (project.HealthSummary, error)
}

// Service exposes read-only project queries returning external projections.
// It never writes; polling callers observe each status at most once per
// lifecycle because the underlying transitions are monotonic.
type Service struct {
	store ProjectReader
}

// NewService constructs a Service around the provided reader.
func NewService(store ProjectReader) *Service {
	if store == nil {
		return nil
	}
	return &Service{store: store}
}

// GetStatus fetches a single project projection. Store errors pass through
// unchanged so callers can classify not-found against other failures.
func (s *Service) GetStatus(ctx context.Context, id string) (ProjectView, error) {
	proj, err := s.store.Get(ctx, id)
	if err != nil {
		return ProjectView{}, err
	}
	return FromProject(proj), nil
}

// ListRecent returns projections ordered newest first.
func (s *Service) ListRecent(ctx context.Context, limit, offset int) ([]ProjectView, error) {
	projects, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return FromProjects(projects), nil
}

// Overview returns aggregate counts per lifecycle state.
func (s *Service) Overview(ctx context.Context) (Summary, error) {
	health, err := s.store.Health(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Total:      health.Total,
		Pending:    health.Pending,
		Generating: health.Generating,
		Completed:  health.Completed,
		Failed:     health.Failed,
	}, nil
}
