package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toggl-cli/internal/domain"
)

// StartRequest carries an already-validated timer start. Project and tags are
// chosen (or created inline) by the caller before the call.
type StartRequest struct {
	Description string
	ProjectID   *int64
	TagIDs      []int64
	Billable    bool
}

type StartedTimer struct {
	Entry   domain.TimeEntry
	Summary string
}

// StartTimer opens a running entry (duration -1, start now UTC).
func (t *Tracker) StartTimer(ctx context.Context, req StartRequest) (StartedTimer, error) {
	if err := t.requireWorkspace(); err != nil {
		return StartedTimer{}, err
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return StartedTimer{}, &InputError{Field: "description", Reason: "cannot be empty"}
	}

	entry, err := t.Toggl.CreateTimeEntry(ctx, t.newRunningEntry(desc, req.ProjectID, req.TagIDs, req.Billable))
	if err != nil {
		return StartedTimer{}, t.remote("start timer", err)
	}

	summary := desc
	if req.ProjectID != nil && *req.ProjectID != 0 {
		summary += " → " + t.ProjectName(req.ProjectID)
	} else {
		summary += " (no project)"
	}
	if len(req.TagIDs) > 0 {
		summary += fmt.Sprintf(" [tags: %d]", len(req.TagIDs))
	}
	t.Activity.Record("Start", summary)
	return StartedTimer{Entry: entry, Summary: summary}, nil
}

func (t *Tracker) newRunningEntry(desc string, projectID *int64, tagIDs []int64, billable bool) domain.NewTimeEntry {
	e := domain.NewTimeEntry{
		Description: desc,
		WorkspaceID: t.Cache.Session.WorkspaceID,
		Duration:    domain.RunningDuration,
		Start:       t.now().UTC().Format(time.RFC3339),
		CreatedWith: CreatedWith,
		Billable:    billable,
	}
	if projectID != nil && *projectID != 0 {
		e.ProjectID = projectID
	}
	if len(tagIDs) > 0 {
		e.TagIDs = tagIDs
	}
	return e
}

type StoppedTimer struct {
	Entry       domain.TimeEntry
	Description string
	Minutes     int64
}

// StopTimer stops the server's current entry.
func (t *Tracker) StopTimer(ctx context.Context) (StoppedTimer, error) {
	if err := t.requireWorkspace(); err != nil {
		return StoppedTimer{}, err
	}
	current, err := t.Toggl.CurrentTimeEntry(ctx)
	if err != nil {
		return StoppedTimer{}, t.remote("fetch current timer", err)
	}
	if current == nil {
		return StoppedTimer{}, ErrNothingRunning
	}

	stopped, err := t.Toggl.StopTimeEntry(ctx, t.Cache.Session.WorkspaceID, current.ID)
	if err != nil {
		return StoppedTimer{}, t.remote("stop timer", err)
	}
	desc := current.Description
	if desc == "" {
		desc = "Untitled"
	}
	res := StoppedTimer{Entry: stopped, Description: desc, Minutes: stopped.DurationSec / 60}
	t.Activity.Record("Stop", fmt.Sprintf("%s (%d min)", desc, res.Minutes))
	return res, nil
}

// CurrentTimer describes the running entry; nil when no timer is open.
type CurrentTimer struct {
	Entry       domain.TimeEntry
	ProjectName string
	TagNames    []string
	Elapsed     time.Duration
}

func (t *Tracker) CurrentTimer(ctx context.Context) (*CurrentTimer, error) {
	if err := t.requireWorkspace(); err != nil {
		return nil, err
	}
	current, err := t.Toggl.CurrentTimeEntry(ctx)
	if err != nil {
		return nil, t.remote("fetch current timer", err)
	}
	if current == nil {
		return nil, nil
	}
	var elapsed time.Duration
	if !current.Start.IsZero() {
		elapsed = t.now().Sub(current.Start).Truncate(time.Second)
	}
	return &CurrentTimer{
		Entry:       *current,
		ProjectName: t.ProjectName(current.ProjectID),
		TagNames:    t.TagNames(current.TagIDs),
		Elapsed:     elapsed,
	}, nil
}

// ResumeLast replays the most recent stopped entry as a new running one. A
// running timer is checked first so the create call is never duplicated.
func (t *Tracker) ResumeLast(ctx context.Context) (StartedTimer, error) {
	if err := t.requireWorkspace(); err != nil {
		return StartedTimer{}, err
	}
	current, err := t.Toggl.CurrentTimeEntry(ctx)
	if err != nil {
		return StartedTimer{}, t.remote("fetch current timer", err)
	}
	if current != nil {
		return StartedTimer{}, ErrAlreadyRunning
	}

	entries, err := t.Toggl.TimeEntries(ctx, time.Time{}, time.Time{})
	if err != nil {
		return StartedTimer{}, t.remote("list time entries", err)
	}
	last, ok := latestStopped(entries)
	if !ok {
		return StartedTimer{}, ErrNothingToResume
	}

	desc := last.Description
	if desc == "" {
		desc = "Untitled"
	}
	entry, err := t.Toggl.CreateTimeEntry(ctx, t.newRunningEntry(desc, last.ProjectID, last.TagIDs, last.Billable))
	if err != nil {
		return StartedTimer{}, t.remote("resume timer", err)
	}
	summary := desc
	if last.ProjectID != nil && *last.ProjectID != 0 {
		summary += " → " + t.ProjectName(last.ProjectID)
	}
	t.Activity.Record("Resume", summary)
	return StartedTimer{Entry: entry, Summary: summary}, nil
}

// latestStopped picks the stopped entry with the latest start, whatever order
// the API listed them in.
func latestStopped(entries []domain.TimeEntry) (domain.TimeEntry, bool) {
	var (
		best  domain.TimeEntry
		found bool
	)
	for _, e := range entries {
		if e.DurationSec <= 0 {
			continue
		}
		if !found || e.Start.After(best.Start) {
			best, found = e, true
		}
	}
	return best, found
}
