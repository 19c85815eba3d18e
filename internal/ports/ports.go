package ports

import (
	"context"
	"encoding/json"
	"time"

	"toggl-cli/internal/domain"
)

// TogglClient is the remote gateway consumed by the interactive commands.
type TogglClient interface {
	Request(ctx context.Context, method, path string, body any) (json.RawMessage, error)
	SetAPIToken(token string)
	APIToken() string

	Me(ctx context.Context) (domain.User, error)
	UpdateMe(ctx context.Context, fields map[string]any) (domain.User, error)
	Workspaces(ctx context.Context) ([]domain.Workspace, error)

	Projects(ctx context.Context) ([]domain.Project, error)
	ProjectsPaginated(ctx context.Context, page, perPage int) ([]domain.Project, error)
	CreateProject(ctx context.Context, workspaceID int64, p domain.NewProject) (domain.Project, error)
	Tags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, workspaceID int64, name string) (domain.Tag, error)

	TimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error)
	CurrentTimeEntry(ctx context.Context) (*domain.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, e domain.NewTimeEntry) (domain.TimeEntry, error)
	StopTimeEntry(ctx context.Context, workspaceID, entryID int64) (domain.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, workspaceID, entryID int64, fields map[string]any) (domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, workspaceID, entryID int64) error

	Tasks(ctx context.Context) ([]domain.Task, error)
	Clients(ctx context.Context) ([]domain.Client, error)
	Organizations(ctx context.Context) ([]domain.Organization, error)
	Quota(ctx context.Context) ([]domain.QuotaEntry, map[string]any, error)
}

// EntrySource defines what the export job reads from Toggl.
type EntrySource interface {
	ListTimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// Sink receives entries and persists them to a target system.
type Sink interface {
	SyncEntries(ctx context.Context, entries []domain.TimeEntry) error
	SyncProjects(ctx context.Context, projects []domain.Project) error
}

// StateBackend loads and stores the persisted session and cache snapshot.
type StateBackend interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Location() string
}

// ActivityRecorder receives one line per notable action.
type ActivityRecorder interface {
	Record(kind, message string)
}
