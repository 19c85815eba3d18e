package domain

// Tag is a workspace label attached to time entries.
type Tag struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
}

func (t Tag) RecordID() int64 { return t.ID }

type Organization struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Admin          bool   `json:"admin"`
	Owner          bool   `json:"owner"`
	PricingPlanID  *int64 `json:"pricing_plan_id"`
	WorkspaceCount *int   `json:"workspace_count,omitempty"`
}

func (o Organization) RecordID() int64 { return o.ID }

type Client struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"wid"`
	Name        string `json:"name"`
	Archived    bool   `json:"archived"`
}

func (c Client) RecordID() int64 { return c.ID }

type Task struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ProjectID        *int64 `json:"project_id"`
	WorkspaceID      int64  `json:"workspace_id"`
	Active           bool   `json:"active"`
	EstimatedSeconds *int64 `json:"estimated_seconds"`
}

func (t Task) RecordID() int64 { return t.ID }

type Workspace struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	OrganizationID *int64 `json:"organization_id"`
}

func (w Workspace) RecordID() int64 { return w.ID }
