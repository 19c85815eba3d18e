package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"toggl-cli/internal/domain"
	"toggl-cli/internal/ports"
)

// Name identifies one of the cached collections.
type Name string

const (
	Projects      Name = "projects"
	Tags          Name = "tags"
	Organizations Name = "organizations"
	Clients       Name = "clients"
	Tasks         Name = "tasks"
	Workspaces    Name = "workspaces"
)

// Names lists every collection in display order.
var Names = []Name{Organizations, Clients, Tasks, Workspaces, Projects, Tags}

// Session is the process-wide login state persisted next to the cache.
type Session struct {
	APIToken    string
	WorkspaceID int64
}

func (s Session) LoggedIn() bool     { return s.APIToken != "" }
func (s Session) HasWorkspace() bool { return s.WorkspaceID != 0 }
func (s Session) Ready() bool        { return s.LoggedIn() && s.HasWorkspace() }

// Store is the local, advisory mirror of the remote reference collections.
// It never checks staleness: callers decide when to refresh.
type Store struct {
	Session Session

	Projects      Collection[domain.Project]
	Tags          Collection[domain.Tag]
	Organizations Collection[domain.Organization]
	Clients       Collection[domain.Client]
	Tasks         Collection[domain.Task]
	Workspaces    Collection[domain.Workspace]

	backend  ports.StateBackend
	activity ports.ActivityRecorder
	log      *slog.Logger
}

func NewStore(backend ports.StateBackend, activity ports.ActivityRecorder, log *slog.Logger) *Store {
	return &Store{backend: backend, activity: activity, log: log}
}

// snapshot is the on-disk layout.
type snapshot struct {
	APIToken      *string                          `json:"api_token"`
	WorkspaceID   *int64                           `json:"workspace_id"`
	Projects      *Collection[domain.Project]      `json:"cached_projects"`
	Tags          *Collection[domain.Tag]          `json:"cached_tags"`
	Organizations *Collection[domain.Organization] `json:"cached_organizations"`
	Clients       *Collection[domain.Client]       `json:"cached_clients"`
	Tasks         *Collection[domain.Task]         `json:"cached_tasks"`
	Workspaces    *Collection[domain.Workspace]    `json:"cached_workspaces"`
}

// Load reads the persisted state. A missing file leaves the store empty; any
// other failure is recorded in the activity log and also leaves it empty.
func (s *Store) Load() {
	s.reset()
	data, err := s.backend.Load()
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("no persisted state", slog.String("path", s.backend.Location()))
		return
	}
	if err == nil {
		err = s.decode(data)
	}
	if err != nil {
		s.reset()
		s.log.Warn("failed to load state", slog.String("path", s.backend.Location()), slog.String("error", err.Error()))
		s.activity.Record("Error", fmt.Sprintf("Error loading config: %v", err))
		return
	}
	s.log.Debug("state loaded",
		slog.Int("projects", s.Projects.Len()),
		slog.Int("tags", s.Tags.Len()),
	)
}

func (s *Store) decode(data []byte) error {
	var snap snapshot
	snap.Projects, snap.Tags = &s.Projects, &s.Tags
	snap.Organizations, snap.Clients = &s.Organizations, &s.Clients
	snap.Tasks, snap.Workspaces = &s.Tasks, &s.Workspaces
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if snap.APIToken != nil {
		s.Session.APIToken = *snap.APIToken
	}
	if snap.WorkspaceID != nil {
		s.Session.WorkspaceID = *snap.WorkspaceID
	}
	return nil
}

// Persist writes the session and all six collections to the backend.
func (s *Store) Persist() error {
	snap := snapshot{
		Projects:      &s.Projects,
		Tags:          &s.Tags,
		Organizations: &s.Organizations,
		Clients:       &s.Clients,
		Tasks:         &s.Tasks,
		Workspaces:    &s.Workspaces,
	}
	if s.Session.APIToken != "" {
		snap.APIToken = &s.Session.APIToken
	}
	if s.Session.WorkspaceID != 0 {
		snap.WorkspaceID = &s.Session.WorkspaceID
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		return fmt.Errorf("save state to %s: %w", s.backend.Location(), err)
	}
	return nil
}

// PersistSilently saves without surfacing the outcome to the user; a failed
// write is only logged.
func (s *Store) PersistSilently() {
	if err := s.Persist(); err != nil {
		s.log.Warn("silent persist failed", slog.String("error", err.Error()))
	}
}

// Location names where Persist writes.
func (s *Store) Location() string { return s.backend.Location() }

// Clear empties one collection without refetching.
func (s *Store) Clear(name Name) error {
	switch name {
	case Projects:
		s.Projects.Clear()
	case Tags:
		s.Tags.Clear()
	case Organizations:
		s.Organizations.Clear()
	case Clients:
		s.Clients.Clear()
	case Tasks:
		s.Tasks.Clear()
	case Workspaces:
		s.Workspaces.Clear()
	default:
		return fmt.Errorf("unknown collection %q", name)
	}
	return nil
}

// ClearAll empties every collection; the session is kept.
func (s *Store) ClearAll() {
	for _, n := range Names {
		_ = s.Clear(n)
	}
}

// Status reports the number of cached records per collection.
func (s *Store) Status() map[Name]int {
	return map[Name]int{
		Projects:      s.Projects.Len(),
		Tags:          s.Tags.Len(),
		Organizations: s.Organizations.Len(),
		Clients:       s.Clients.Len(),
		Tasks:         s.Tasks.Len(),
		Workspaces:    s.Workspaces.Len(),
	}
}

func (s *Store) reset() {
	s.Session = Session{}
	s.ClearAll()
}
