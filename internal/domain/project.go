package domain

import "time"

// Project represents a Toggl project in the domain layer.
type Project struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"workspace_id"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	Private     bool      `json:"is_private"`
	Color       string    `json:"color,omitempty"`
	ClientID    *int64    `json:"client_id"`
	ClientName  string    `json:"client_name,omitempty"` // only filled by the paginated listing
	At          time.Time `json:"at"`                    // Last update timestamp from Toggl
}

func (p Project) RecordID() int64 { return p.ID }

// NewProject is the payload for creating a project in a workspace.
type NewProject struct {
	Name    string `json:"name"`
	Private bool   `json:"is_private"`
	Active  bool   `json:"active"`
}
