package status

import (
	"time"

	"genforge/internal/project"
)

// ArtifactView is the externally visible form of a generated file.
type ArtifactView struct {
	Name       string     `json:"name"`
	Content    string     `json:"content"`
	Language   string     `json:"language,omitempty"`
	Size       int64      `json:"size"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// ProjectView is the externally visible projection of a project record.
// Artifacts appear only on completed projects.
type ProjectView struct {
	ID        string            `json:"id"`
	Prompt    string            `json:"prompt"`
	Backend   string            `json:"backend,omitempty"`
	Status    string            `json:"status"`
	Summary   string            `json:"summary,omitempty"`
	Artifacts []ArtifactView    `json:"artifacts,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Summary aggregates project counts per lifecycle state.
type Summary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Generating int `json:"generating"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// FromProject converts a stored record into its external projection.
func FromProject(proj *project.Project) ProjectView {
	if proj == nil {
		return ProjectView{}
	}
	view := ProjectView{
		ID:        proj.ID,
		Prompt:    proj.Prompt,
		Backend:   proj.Backend,
		Status:    string(proj.Status),
		Summary:   proj.Summary,
		Metadata:  proj.Metadata,
		CreatedAt: proj.CreatedAt,
		UpdatedAt: proj.UpdatedAt,
	}
	if proj.Status == project.StatusCompleted {
		view.Artifacts = make([]ArtifactView, 0, len(proj.Artifacts))
		for _, artifact := range proj.Artifacts {
			view.Artifacts = append(view.Artifacts, ArtifactView(artifact))
		}
	}
	return view
}

// FromProjects converts a slice of records preserving order.
func FromProjects(projects []*project.Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, proj := range projects {
		views = append(views, FromProject(proj))
	}
	return views
}
