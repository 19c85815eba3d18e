package domain

import "time"

// RunningDuration is the duration Toggl uses for an entry whose timer is still open.
const RunningDuration int64 = -1

// TimeEntry represents a Toggl time entry in the domain.
type TimeEntry struct {
	ID          int64      `json:"id"`
	WorkspaceID int64      `json:"workspace_id"`
	Description string     `json:"description"`
	ProjectID   *int64     `json:"project_id"`
	TaskID      *int64     `json:"task_id"`
	Tags        []string   `json:"tags"`
	TagIDs      []int64    `json:"tag_ids"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
	DurationSec int64      `json:"duration"` // Negative means running in Toggl API semantics
	Billable    bool       `json:"billable"`
}

// Running reports whether the entry's timer is still open.
func (e TimeEntry) Running() bool { return e.DurationSec < 0 }

// Day returns the calendar day of the entry start as YYYY-MM-DD, in the
// offset the server reported it with.
func (e TimeEntry) Day() string { return e.Start.Format("2006-01-02") }

// NewTimeEntry is the payload for creating a time entry.
type NewTimeEntry struct {
	Description string  `json:"description"`
	WorkspaceID int64   `json:"workspace_id"`
	Duration    int64   `json:"duration"`
	Start       string  `json:"start"`
	CreatedWith string  `json:"created_with"`
	ProjectID   *int64  `json:"project_id,omitempty"`
	TagIDs      []int64 `json:"tag_ids,omitempty"`
	Billable    bool    `json:"billable"`
}
