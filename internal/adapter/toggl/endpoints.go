package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"toggl-cli/internal/domain"
)

// Me returns the profile behind the token. GET /me
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.call(ctx, http.MethodGet, "/me", nil, &u)
	return u, err
}

// UpdateMe applies a partial profile update. PUT /me
func (c *Client) UpdateMe(ctx context.Context, fields map[string]any) (domain.User, error) {
	var u domain.User
	err := c.call(ctx, http.MethodPut, "/me", fields, &u)
	return u, err
}

func (c *Client) Workspaces(ctx context.Context) ([]domain.Workspace, error) {
	var out []domain.Workspace
	err := c.call(ctx, http.MethodGet, "/me/workspaces", nil, &out)
	return out, err
}

func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := c.call(ctx, http.MethodGet, "/me/projects", nil, &out)
	return out, err
}

// ProjectsPaginated fetches one page. The endpoint answers either with a bare
// array or with an object carrying the array under "data".
func (c *Client) ProjectsPaginated(ctx context.Context, page, perPage int) ([]domain.Project, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(perPage))
	path := "/me/projects/paginated?" + q.Encode()

	raw, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []domain.Project
	if raw[0] == '[' {
		err = json.Unmarshal(raw, &out)
	} else {
		var wrapped struct {
			Data []domain.Project `json:"data"`
		}
		err = json.Unmarshal(raw, &wrapped)
		out = wrapped.Data
	}
	if err != nil {
		return nil, fmt.Errorf("toggl: decode %s: %w", path, err)
	}
	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, workspaceID int64, p domain.NewProject) (domain.Project, error) {
	var out domain.Project
	err := c.call(ctx, http.MethodPost, fmt.Sprintf("/workspaces/%d/projects", workspaceID), p, &out)
	return out, err
}

func (c *Client) Tags(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	err := c.call(ctx, http.MethodGet, "/me/tags", nil, &out)
	return out, err
}

func (c *Client) CreateTag(ctx context.Context, workspaceID int64, name string) (domain.Tag, error) {
	var out domain.Tag
	body := map[string]string{"name": name}
	err := c.call(ctx, http.MethodPost, fmt.Sprintf("/workspaces/%d/tags", workspaceID), body, &out)
	return out, err
}

// TimeEntries fetches entries in [from, to]. A zero window asks the API for
// its default listing (most recent entries).
func (c *Client) TimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error) {
	path := "/me/time_entries"
	if !from.IsZero() && !to.IsZero() {
		q := url.Values{}
		q.Set("start_date", from.UTC().Format(time.RFC3339))
		q.Set("end_date", to.UTC().Format(time.RFC3339))
		path += "?" + q.Encode()
	}
	var out []domain.TimeEntry
	err := c.call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CurrentTimeEntry returns the running entry, or nil when no timer is open.
func (c *Client) CurrentTimeEntry(ctx context.Context) (*domain.TimeEntry, error) {
	var out *domain.TimeEntry
	if err := c.call(ctx, http.MethodGet, "/me/time_entries/current", nil, &out); err != nil {
		return nil, err
	}
	if out == nil || out.ID == 0 {
		return nil, nil
	}
	return out, nil
}

func (c *Client) CreateTimeEntry(ctx context.Context, e domain.NewTimeEntry) (domain.TimeEntry, error) {
	var out domain.TimeEntry
	err := c.call(ctx, http.MethodPost, fmt.Sprintf("/workspaces/%d/time_entries", e.WorkspaceID), e, &out)
	return out, err
}

func (c *Client) StopTimeEntry(ctx context.Context, workspaceID, entryID int64) (domain.TimeEntry, error) {
	var out domain.TimeEntry
	path := fmt.Sprintf("/workspaces/%d/time_entries/%d/stop", workspaceID, entryID)
	err := c.call(ctx, http.MethodPatch, path, struct{}{}, &out)
	return out, err
}

// UpdateTimeEntry replaces the entry with fields. A nil value in fields is
// sent as JSON null, which clears the attribute remotely.
func (c *Client) UpdateTimeEntry(ctx context.Context, workspaceID, entryID int64, fields map[string]any) (domain.TimeEntry, error) {
	var out domain.TimeEntry
	path := fmt.Sprintf("/workspaces/%d/time_entries/%d", workspaceID, entryID)
	err := c.call(ctx, http.MethodPut, path, fields, &out)
	return out, err
}

func (c *Client) DeleteTimeEntry(ctx context.Context, workspaceID, entryID int64) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/workspaces/%d/time_entries/%d", workspaceID, entryID), nil)
	return err
}

func (c *Client) Tasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	err := c.call(ctx, http.MethodGet, "/me/tasks", nil, &out)
	return out, err
}

func (c *Client) Clients(ctx context.Context) ([]domain.Client, error) {
	var out []domain.Client
	err := c.call(ctx, http.MethodGet, "/me/clients", nil, &out)
	return out, err
}

func (c *Client) Organizations(ctx context.Context) ([]domain.Organization, error) {
	var out []domain.Organization
	err := c.call(ctx, http.MethodGet, "/me/organizations", nil, &out)
	return out, err
}

// Quota returns the per-organization request quota. When the API answers
// with something other than a list, the entries are nil and the decoded
// object is returned as extra.
func (c *Client) Quota(ctx context.Context) ([]domain.QuotaEntry, map[string]any, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/me/quota", nil)
	if err != nil {
		return nil, nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var entries []domain.QuotaEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, nil, fmt.Errorf("toggl: decode quota: %w", err)
		}
		return entries, nil, nil
	}
	extra := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &extra); err != nil {
			extra["value"] = string(raw)
		}
	}
	return nil, extra, nil
}

// ListTimeEntries fetches entries in [from, to] for the export job.
// Toggl v9: GET /api/v9/me/time_entries?start_date=...&end_date=...
func (c *Client) ListTimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error) {
	return c.TimeEntries(ctx, from, to)
}

// ListProjects fetches projects accessible to the configured token.
// If a workspace ID is configured, it scopes the request to that workspace.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	if c.workspace == 0 {
		return c.Projects(ctx)
	}
	var out []domain.Project
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/workspaces/%d/projects", c.workspace), nil, &out)
	return out, err
}
