package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"toggl-cli/internal/cache"
	"toggl-cli/internal/domain"
)

// Login checks token against GET /me. On failure the previous token is
// restored and the session is left untouched.
func (t *Tracker) Login(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, &InputError{Field: "API token", Reason: "cannot be empty"}
	}
	prev := t.Toggl.APIToken()
	t.Toggl.SetAPIToken(token)
	user, err := t.Toggl.Me(ctx)
	if err != nil {
		t.Toggl.SetAPIToken(prev)
		return domain.User{}, t.remote("login", err)
	}
	t.Cache.Session.APIToken = token
	t.Activity.Record("Login", "Logged in as "+user.Email)
	return user, nil
}

// Workspaces fetches the workspaces available to the logged-in user.
func (t *Tracker) Workspaces(ctx context.Context) ([]domain.Workspace, error) {
	if err := t.requireLogin(); err != nil {
		return nil, err
	}
	ws, err := t.Toggl.Workspaces(ctx)
	if err != nil {
		return nil, t.remote("list workspaces", err)
	}
	t.Cache.Workspaces.Replace(ws)
	t.Cache.PersistSilently()
	return ws, nil
}

// WorkspaceSelection reports what SelectWorkspace cached. A count of -1
// means that fetch failed; the selection itself still stands.
type WorkspaceSelection struct {
	Workspace domain.Workspace
	Projects  int
	Tags      int
	SavedTo   string
}

// SelectWorkspace makes ws current, primes the project and tag caches and
// persists the session.
func (t *Tracker) SelectWorkspace(ctx context.Context, ws domain.Workspace) (WorkspaceSelection, error) {
	if err := t.requireLogin(); err != nil {
		return WorkspaceSelection{}, err
	}
	t.Cache.Session.WorkspaceID = ws.ID
	sel := WorkspaceSelection{Workspace: ws, Projects: -1, Tags: -1}

	if projects, err := t.Toggl.Projects(ctx); err != nil {
		_ = t.remote("list projects", err)
	} else {
		t.Cache.Projects.Replace(projects)
		sel.Projects = len(projects)
	}
	if tags, err := t.Toggl.Tags(ctx); err != nil {
		_ = t.remote("list tags", err)
	} else {
		t.Cache.Tags.Replace(tags)
		sel.Tags = len(tags)
	}

	path, err := t.Save()
	if err != nil {
		return sel, err
	}
	sel.SavedTo = path
	return sel, nil
}

func (t *Tracker) Profile(ctx context.Context) (domain.User, error) {
	if err := t.requireLogin(); err != nil {
		return domain.User{}, err
	}
	u, err := t.Toggl.Me(ctx)
	if err != nil {
		return domain.User{}, t.remote("fetch profile", err)
	}
	return u, nil
}

// ProfileUpdate sets the non-nil fields.
type ProfileUpdate struct {
	Fullname           *string
	Email              *string
	Timezone           *string
	BeginningOfWeek    *int
	DefaultWorkspaceID *int64
}

func (u ProfileUpdate) fields() (map[string]any, error) {
	f := map[string]any{}
	if u.Fullname != nil && strings.TrimSpace(*u.Fullname) != "" {
		f["fullname"] = strings.TrimSpace(*u.Fullname)
	}
	if u.Email != nil && strings.TrimSpace(*u.Email) != "" {
		f["email"] = strings.TrimSpace(*u.Email)
	}
	if u.Timezone != nil && strings.TrimSpace(*u.Timezone) != "" {
		f["timezone"] = strings.TrimSpace(*u.Timezone)
	}
	if u.BeginningOfWeek != nil {
		if *u.BeginningOfWeek < 0 || *u.BeginningOfWeek > 6 {
			return nil, &InputError{Field: "week start day", Reason: "must be between 0 and 6"}
		}
		f["beginning_of_week"] = *u.BeginningOfWeek
	}
	if u.DefaultWorkspaceID != nil {
		f["default_workspace_id"] = *u.DefaultWorkspaceID
	}
	return f, nil
}

// UpdateProfile sends a partial PUT /me.
func (t *Tracker) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.User, error) {
	if err := t.requireLogin(); err != nil {
		return domain.User{}, err
	}
	fields, err := update.fields()
	if err != nil {
		return domain.User{}, err
	}
	if len(fields) == 0 {
		return domain.User{}, ErrNoChanges
	}
	u, err := t.Toggl.UpdateMe(ctx, fields)
	if err != nil {
		return domain.User{}, t.remote("update profile", err)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	t.Activity.Record("Update Profile", strings.Join(keys, ", "))
	return u, nil
}

// QuotaLine is one quota bucket ready for display.
type QuotaLine struct {
	Name      string
	Used      int
	Total     int
	Remaining int
	ResetsIn  time.Duration
	Low       bool
}

// QuotaReport holds either per-organization lines or, when the API answered
// with a plain object, its fields.
type QuotaReport struct {
	Lines []QuotaLine
	Extra map[string]any
}

// LowQuota flags buckets with fewer remaining requests than this.
const LowQuota = 5

func (t *Tracker) Quota(ctx context.Context) (QuotaReport, error) {
	if err := t.requireWorkspace(); err != nil {
		return QuotaReport{}, err
	}
	entries, extra, err := t.Toggl.Quota(ctx)
	if err != nil {
		return QuotaReport{}, t.remote("check quota", err)
	}
	// Organization names are best effort.
	orgs, _, _ := cachedOrFetch(ctx, t, "list organizations", &t.Cache.Organizations, false, t.Toggl.Organizations)
	names := map[int64]string{}
	for _, o := range orgs {
		if o.ID != 0 {
			name := o.Name
			if name == "" {
				name = "Unknown"
			}
			names[o.ID] = name
		}
	}

	report := QuotaReport{Extra: extra}
	for _, e := range entries {
		var name string
		switch {
		case e.OrganizationID == nil:
			name = "User Specific Requests Quota"
		case names[*e.OrganizationID] != "":
			name = names[*e.OrganizationID]
		default:
			name = fmt.Sprintf("Organization ID: %d", *e.OrganizationID)
		}
		report.Lines = append(report.Lines, QuotaLine{
			Name:      name,
			Used:      e.Total - e.Remaining,
			Total:     e.Total,
			Remaining: e.Remaining,
			ResetsIn:  time.Duration(e.ResetsInSecs) * time.Second,
			Low:       e.Remaining < LowQuota,
		})
	}
	t.Activity.Record("Check", "API quota")
	return report, nil
}

// Refresh clears one collection and refetches it. On failure the collection
// stays empty in memory and the previous file contents are not overwritten.
func (t *Tracker) Refresh(ctx context.Context, name cache.Name) (int, error) {
	if err := t.requireLogin(); err != nil {
		return 0, err
	}
	if err := t.Cache.Clear(name); err != nil {
		return 0, &InputError{Field: "collection", Reason: err.Error()}
	}
	n, err := t.refetch(ctx, name)
	if err != nil {
		return 0, t.remote("refresh "+string(name), err)
	}
	t.Cache.PersistSilently()
	t.Activity.Record("Refresh", titleCase(string(name))+" cache")
	return n, nil
}

// RefreshAll clears every collection and refetches each in turn. Failed
// collections stay empty; the names of those are returned.
func (t *Tracker) RefreshAll(ctx context.Context) ([]cache.Name, error) {
	if err := t.requireLogin(); err != nil {
		return nil, err
	}
	t.Cache.ClearAll()
	var failed []cache.Name
	for _, name := range cache.Names {
		if _, err := t.refetch(ctx, name); err != nil {
			_ = t.remote("refresh "+string(name), err)
			failed = append(failed, name)
		}
	}
	t.Cache.PersistSilently()
	t.Activity.Record("Refresh", "All cache")
	if len(failed) == len(cache.Names) {
		return failed, errors.New("refresh failed for every collection")
	}
	return failed, nil
}

func (t *Tracker) refetch(ctx context.Context, name cache.Name) (int, error) {
	switch name {
	case cache.Projects:
		return refill(ctx, &t.Cache.Projects, t.Toggl.Projects)
	case cache.Tags:
		return refill(ctx, &t.Cache.Tags, t.Toggl.Tags)
	case cache.Organizations:
		return refill(ctx, &t.Cache.Organizations, t.Toggl.Organizations)
	case cache.Clients:
		return refill(ctx, &t.Cache.Clients, t.Toggl.Clients)
	case cache.Tasks:
		return refill(ctx, &t.Cache.Tasks, t.Toggl.Tasks)
	case cache.Workspaces:
		return refill(ctx, &t.Cache.Workspaces, t.Toggl.Workspaces)
	}
	return 0, fmt.Errorf("unknown collection %q", name)
}

func refill[T cache.Record](ctx context.Context, c *cache.Collection[T], fetch func(context.Context) ([]T, error)) (int, error) {
	items, err := fetch(ctx)
	if err != nil {
		return 0, err
	}
	c.Replace(items)
	return len(items), nil
}

// ClearCache empties every collection without refetching.
func (t *Tracker) ClearCache() {
	t.Cache.ClearAll()
	t.Cache.PersistSilently()
	t.Activity.Record("Clear", "All cache")
}

// OpenReports opens the web reports in a browser.
func (t *Tracker) OpenReports() error {
	if t.OpenURL == nil {
		return errors.New("no browser opener configured")
	}
	if err := t.OpenURL(t.ReportsURL); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	t.Activity.Record("Open", "Toggl Reports in browser")
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
