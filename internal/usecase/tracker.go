package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"toggl-cli/internal/cache"
	"toggl-cli/internal/domain"
	"toggl-cli/internal/ports"
	"toggl-cli/internal/resolve"
)

// CreatedWith identifies this client on entries it creates.
const CreatedWith = "toggl-cli"

var (
	ErrNothingRunning  = errors.New("no timer is currently running")
	ErrAlreadyRunning  = errors.New("timer is already running, stop it first")
	ErrNothingToResume = errors.New("no previous entries to resume")
	ErrNoChanges       = errors.New("no changes made")
)

// InputError rejects a parameter before anything is sent.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Reason) }

// Tracker holds the interactive commands. Each command checks the session,
// runs its gateway calls in order and stops at the first failure, then
// records one activity line. Nothing is rolled back: the cache is advisory.
type Tracker struct {
	Log      *slog.Logger
	Toggl    ports.TogglClient
	Cache    *cache.Store
	Activity ports.ActivityRecorder

	ReportsURL string
	OpenURL    func(url string) error
	Now        func() time.Time
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Tracker) resolver() resolve.Resolver { return resolve.New(t.Cache) }

// ProjectName resolves a project id for display.
func (t *Tracker) ProjectName(id *int64) string { return t.resolver().ProjectName(id) }

// TagNames resolves tag ids for display.
func (t *Tracker) TagNames(ids []int64) []string { return t.resolver().TagNames(ids) }

// Session exposes the current login state.
func (t *Tracker) Session() cache.Session { return t.Cache.Session }

func (t *Tracker) requireLogin() error {
	if !t.Cache.Session.LoggedIn() {
		return domain.ErrNotLoggedIn
	}
	return nil
}

func (t *Tracker) requireWorkspace() error {
	if !t.Cache.Session.Ready() {
		return domain.ErrNoWorkspace
	}
	return nil
}

// remote records a failed gateway call in the activity log and hands the
// error back to the caller.
func (t *Tracker) remote(op string, err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Activity.Record("Error", err.Error())
	}
	t.Log.Debug("gateway call failed", slog.String("op", op), slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", op, err)
}

// Save persists the session and cache and returns where it was written.
func (t *Tracker) Save() (string, error) {
	if err := t.Cache.Persist(); err != nil {
		return "", err
	}
	return t.Cache.Location(), nil
}
