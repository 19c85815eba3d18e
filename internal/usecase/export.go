package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"toggl-cli/internal/ports"
)

// ExportUseCase copies a window of time entries, plus the project list they
// refer to, from Toggl into a Sink.
type ExportUseCase struct {
	Log   *slog.Logger
	Toggl ports.EntrySource
	Sink  ports.Sink
}

func (uc *ExportUseCase) Run(ctx context.Context, from, to time.Time) error {
	if uc.Toggl == nil || uc.Sink == nil {
		return errors.New("export not initialized: missing dependencies")
	}
	if !from.Before(to) {
		return errors.New("export window is empty: from must be before to")
	}
	uc.Log.Info("fetching time entries", slog.Time("from", from), slog.Time("to", to))

	entries, err := uc.Toggl.ListTimeEntries(ctx, from, to)
	if err != nil {
		return err
	}
	uc.Log.Info("fetched time entries", slog.Int("count", len(entries)))

	if len(entries) == 0 {
		uc.Log.Info("no entries to export")
		return nil
	}

	// Projects first so entry rows can be joined against names.
	projects, err := uc.Toggl.ListProjects(ctx)
	if err != nil {
		return err
	}
	if err := uc.Sink.SyncProjects(ctx, projects); err != nil {
		return err
	}
	if err := uc.Sink.SyncEntries(ctx, entries); err != nil {
		return err
	}
	uc.Log.Info("export completed", slog.Int("entries", len(entries)), slog.Int("projects", len(projects)))
	return nil
}
