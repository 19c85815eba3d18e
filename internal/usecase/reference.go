package usecase

import (
	"context"
	"fmt"
	"strings"

	"toggl-cli/internal/cache"
	"toggl-cli/internal/domain"
)

// cachedOrFetch serves c when it holds anything; otherwise it fetches,
// fills the cache and persists silently. fresh skips the cache read.
func cachedOrFetch[T cache.Record](ctx context.Context, t *Tracker, op string, c *cache.Collection[T], fresh bool,
	fetch func(context.Context) ([]T, error)) ([]T, bool, error) {
	if !fresh && c.Len() > 0 {
		return c.Get(), true, nil
	}
	items, err := fetch(ctx)
	if err != nil {
		return nil, false, t.remote(op, err)
	}
	c.Replace(items)
	t.Cache.PersistSilently()
	return items, false, nil
}

// Projects returns the project list. Without fresh the cache is served when
// it is populated; with fresh the list is refetched and the cache replaced.
func (t *Tracker) Projects(ctx context.Context, fresh bool) ([]domain.Project, error) {
	if err := t.requireWorkspace(); err != nil {
		return nil, err
	}
	items, _, err := cachedOrFetch(ctx, t, "list projects", &t.Cache.Projects, fresh, t.Toggl.Projects)
	return items, err
}

func (t *Tracker) Tags(ctx context.Context, fresh bool) ([]domain.Tag, error) {
	if err := t.requireWorkspace(); err != nil {
		return nil, err
	}
	items, _, err := cachedOrFetch(ctx, t, "list tags", &t.Cache.Tags, fresh, t.Toggl.Tags)
	return items, err
}

// QuickCreateProject creates a public, active project and appends the
// server's record to the cache without refetching the list.
func (t *Tracker) QuickCreateProject(ctx context.Context, name string) (domain.Project, error) {
	if err := t.requireWorkspace(); err != nil {
		return domain.Project{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, &InputError{Field: "project name", Reason: "cannot be empty"}
	}
	p, err := t.Toggl.CreateProject(ctx, t.Cache.Session.WorkspaceID, domain.NewProject{Name: name, Active: true})
	if err != nil {
		return domain.Project{}, t.remote("create project", err)
	}
	t.Activity.Record("Create Project", name)
	t.Cache.Projects.Append(p)
	t.Cache.PersistSilently()
	return p, nil
}

// QuickCreateTag creates a tag and appends it to the cache.
func (t *Tracker) QuickCreateTag(ctx context.Context, name string) (domain.Tag, error) {
	if err := t.requireWorkspace(); err != nil {
		return domain.Tag{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, &InputError{Field: "tag name", Reason: "cannot be empty"}
	}
	tag, err := t.Toggl.CreateTag(ctx, t.Cache.Session.WorkspaceID, name)
	if err != nil {
		return domain.Tag{}, t.remote("create tag", err)
	}
	t.Activity.Record("Create Tag", name)
	t.Cache.Tags.Append(tag)
	t.Cache.PersistSilently()
	return tag, nil
}

// Created reports a create followed by a full refetch of its collection.
// Cached is -1 when the refetch failed; the remote create still stands.
type Created struct {
	ID     int64
	Name   string
	Cached int
}

// CreateProject creates a project and then refreshes the whole project cache.
func (t *Tracker) CreateProject(ctx context.Context, name string, private bool) (Created, error) {
	if err := t.requireWorkspace(); err != nil {
		return Created{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Created{}, &InputError{Field: "project name", Reason: "cannot be empty"}
	}
	p, err := t.Toggl.CreateProject(ctx, t.Cache.Session.WorkspaceID, domain.NewProject{Name: name, Private: private, Active: true})
	if err != nil {
		return Created{}, t.remote("create project", err)
	}
	t.Activity.Record("Create Project", name)

	res := Created{ID: p.ID, Name: name, Cached: -1}
	if items, _, err := cachedOrFetch(ctx, t, "refresh projects", &t.Cache.Projects, true, t.Toggl.Projects); err == nil {
		res.Cached = len(items)
	}
	return res, nil
}

func (t *Tracker) CreateTag(ctx context.Context, name string) (Created, error) {
	if err := t.requireWorkspace(); err != nil {
		return Created{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Created{}, &InputError{Field: "tag name", Reason: "cannot be empty"}
	}
	tag, err := t.Toggl.CreateTag(ctx, t.Cache.Session.WorkspaceID, name)
	if err != nil {
		return Created{}, t.remote("create tag", err)
	}
	t.Activity.Record("Create Tag", name)

	res := Created{ID: tag.ID, Name: name, Cached: -1}
	if items, _, err := cachedOrFetch(ctx, t, "refresh tags", &t.Cache.Tags, true, t.Toggl.Tags); err == nil {
		res.Cached = len(items)
	}
	return res, nil
}

// ProjectsPageSize is the page size for the paginated project listing.
const ProjectsPageSize = 50

// ProjectsPaginated walks the paginated listing until a short page and
// replaces the project cache with the result. An empty listing leaves the
// cache as it was.
func (t *Tracker) ProjectsPaginated(ctx context.Context) ([]domain.Project, int, error) {
	if err := t.requireWorkspace(); err != nil {
		return nil, 0, err
	}
	var all []domain.Project
	page := 1
	for {
		batch, err := t.Toggl.ProjectsPaginated(ctx, page, ProjectsPageSize)
		if err != nil {
			return nil, page, t.remote("list projects", err)
		}
		all = append(all, batch...)
		if len(batch) < ProjectsPageSize {
			break
		}
		page++
	}
	if len(all) == 0 {
		return nil, page, nil
	}
	t.Cache.Projects.Replace(all)
	t.Cache.PersistSilently()
	return all, page, nil
}

// TaskGroup is the tasks of one project.
type TaskGroup struct {
	Project string
	Tasks   []domain.Task
}

type TaskListing struct {
	Groups    []TaskGroup // by project name
	Total     int
	FromCache bool
}

// TasksByProject lists tasks grouped by resolved project name.
func (t *Tracker) TasksByProject(ctx context.Context) (TaskListing, error) {
	if err := t.requireWorkspace(); err != nil {
		return TaskListing{}, err
	}
	tasks, fromCache, err := cachedOrFetch(ctx, t, "list tasks", &t.Cache.Tasks, false, t.Toggl.Tasks)
	if err != nil {
		return TaskListing{}, err
	}
	index := map[string]int{}
	var groups []TaskGroup
	for _, task := range tasks {
		name := t.ProjectName(task.ProjectID)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, TaskGroup{Project: name})
		}
		groups[i].Tasks = append(groups[i].Tasks, task)
	}
	sortByName(groups, func(g TaskGroup) string { return g.Project })
	return TaskListing{Groups: groups, Total: len(tasks), FromCache: fromCache}, nil
}

// Clients lists clients, serving the cache when populated.
func (t *Tracker) Clients(ctx context.Context) ([]domain.Client, bool, error) {
	if err := t.requireWorkspace(); err != nil {
		return nil, false, err
	}
	clients, fromCache, err := cachedOrFetch(ctx, t, "list clients", &t.Cache.Clients, false, t.Toggl.Clients)
	if err != nil {
		return nil, false, err
	}
	if len(clients) > 0 {
		t.Activity.Record("List", fmt.Sprintf("%d clients", len(clients)))
	}
	return clients, fromCache, nil
}

// OrganizationView is an organization with the number of cached workspaces
// that belong to it; Workspaces falls back to the organization's own count.
type OrganizationView struct {
	Organization domain.Organization
	Workspaces   *int
}

func (t *Tracker) Organizations(ctx context.Context) ([]OrganizationView, error) {
	if err := t.requireLogin(); err != nil {
		return nil, err
	}
	orgs, _, err := cachedOrFetch(ctx, t, "list organizations", &t.Cache.Organizations, false, t.Toggl.Organizations)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, nil
	}
	// Workspace counts are best effort.
	workspaces, _, _ := cachedOrFetch(ctx, t, "list workspaces", &t.Cache.Workspaces, false, t.Toggl.Workspaces)
	counts := map[int64]int{}
	for _, ws := range workspaces {
		if ws.OrganizationID != nil {
			counts[*ws.OrganizationID]++
		}
	}

	out := make([]OrganizationView, 0, len(orgs))
	for _, o := range orgs {
		v := OrganizationView{Organization: o, Workspaces: o.WorkspaceCount}
		if n, ok := counts[o.ID]; ok {
			v.Workspaces = &n
		}
		out = append(out, v)
	}
	t.Activity.Record("List", fmt.Sprintf("%d organizations", len(orgs)))
	return out, nil
}
