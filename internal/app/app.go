package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"toggl-cli/internal/activity"
	msql "toggl-cli/internal/adapter/mysql"
	"toggl-cli/internal/adapter/statefile"
	tg "toggl-cli/internal/adapter/toggl"
	"toggl-cli/internal/cache"
	"toggl-cli/internal/config"
	"toggl-cli/internal/domain"
	"toggl-cli/internal/menu"
	"toggl-cli/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log     *slog.Logger
	cfg     config.Config
	loc     *time.Location
	toggl   *tg.Client
	tracker *usecase.Tracker
}

// New loads the persisted session and cache and builds the gateway from it.
// Token and workspace from cfg only fill in what the state file lacks.
func New(log *slog.Logger, cfg config.Config) (*App, error) {
	loc, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid export timezone %q: %w", cfg.Export.Timezone, err)
	}

	rec := activity.New(activity.AppendFile(cfg.Activity.Path), log)
	rec.Begin()

	store := cache.NewStore(statefile.New(cfg.State.Path), rec, log)
	store.Load()
	if store.Session.APIToken == "" {
		store.Session.APIToken = cfg.Toggl.APIToken
	}
	if store.Session.WorkspaceID == 0 {
		store.Session.WorkspaceID = cfg.Toggl.WorkspaceID
	}

	togglClient := tg.NewClient(cfg.Toggl.BaseURL, store.Session.APIToken, store.Session.WorkspaceID, log)

	tracker := &usecase.Tracker{
		Log:        log,
		Toggl:      togglClient,
		Cache:      store,
		Activity:   rec,
		ReportsURL: cfg.Toggl.ReportsURL,
		OpenURL:    openBrowser,
	}

	log.Debug("app initialized",
		slog.String("state", store.Location()),
		slog.Bool("logged_in", store.Session.LoggedIn()),
		slog.Int64("workspace_id", store.Session.WorkspaceID),
	)
	return &App{log: log, cfg: cfg, loc: loc, toggl: togglClient, tracker: tracker}, nil
}

// Location is the zone date-only export bounds are interpreted in.
func (a *App) Location() *time.Location { return a.loc }

// RunMenu drives the interactive menu until the user exits or in is exhausted.
func (a *App) RunMenu(ctx context.Context, in io.Reader, out io.Writer) {
	menu.New(a.tracker, in, out, a.log).Run(ctx)
}

// Export copies [from, to) into MySQL. The workspace, when known, scopes the
// project list.
func (a *App) Export(ctx context.Context, from, to time.Time) error {
	if a.toggl.APIToken() == "" {
		return domain.ErrNotLoggedIn
	}
	a.toggl.SetWorkspace(a.tracker.Session().WorkspaceID)

	sink, err := msql.NewClient(ctx, a.cfg.MySQL.DSN, a.log)
	if err != nil {
		return err
	}
	defer sink.Close()

	uc := &usecase.ExportUseCase{Log: a.log, Toggl: a.toggl, Sink: sink}
	return uc.Run(ctx, from, to)
}
