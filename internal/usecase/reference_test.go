package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"toggl-cli/internal/domain"
)

func TestQuickCreateProject_ForbiddenLeavesCache(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Acme"}})
	f.api.on("POST /workspaces/42/projects", http.StatusForbidden, `"not allowed"`)

	if _, err := f.tracker.QuickCreateProject(context.Background(), "New"); err == nil {
		t.Fatalf("expected error")
	}
	if f.store.Projects.Len() != 1 {
		t.Fatalf("cache must not change on failure: %+v", f.store.Projects.Get())
	}
	if f.backend.saves != 0 {
		t.Fatalf("nothing should be persisted")
	}
	if !f.activity.has("(Error): API Error 403") {
		t.Fatalf("missing error activity %v", f.activity.lines)
	}
}

func TestQuickCreateProject_AppendsWithoutRefetch(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Acme"}})
	f.api.on("POST /workspaces/42/projects", http.StatusOK, `{"id":2,"name":"New","active":true}`)

	p, err := f.tracker.QuickCreateProject(context.Background(), " New ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	body := f.api.last("POST /workspaces/42/projects").Body
	if body["name"] != "New" || body["active"] != true {
		t.Fatalf("unexpected body %v", body)
	}
	if got, ok := f.store.Projects.Lookup(p.ID); !ok || got.Name != "New" {
		t.Fatalf("created project not cached")
	}
	if f.api.count("GET /me/projects") != 0 {
		t.Fatalf("quick create must not refetch")
	}
	if f.backend.saves != 1 {
		t.Fatalf("expected one silent persist, got %d", f.backend.saves)
	}
}

func TestQuickCreateTag_Appends(t *testing.T) {
	f := newFixture(t)
	f.api.on("POST /workspaces/42/tags", http.StatusOK, `{"id":8,"name":"ops"}`)
	if _, err := f.tracker.QuickCreateTag(context.Background(), "ops"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.store.Tags.Len() != 1 || !f.activity.has("(Create Tag): ops") {
		t.Fatalf("tag not appended or not logged")
	}
}

func TestCreateProject_RefetchesCollection(t *testing.T) {
	f := newFixture(t)
	f.api.on("POST /workspaces/42/projects", http.StatusOK, `{"id":3,"name":"Secret"}`)
	f.api.on("GET /me/projects", http.StatusOK, `[{"id":1,"name":"A"},{"id":2,"name":"B"},{"id":3,"name":"Secret"}]`)

	res, err := f.tracker.CreateProject(context.Background(), "Secret", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.ID != 3 || res.Cached != 3 || f.store.Projects.Len() != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if f.api.last("POST /workspaces/42/projects").Body["is_private"] != true {
		t.Fatalf("private flag not sent: %v", f.api.last("POST /workspaces/42/projects").Body)
	}
}

func TestCreateTag_RefetchFailureKeepsCreate(t *testing.T) {
	f := newFixture(t)
	f.api.on("POST /workspaces/42/tags", http.StatusOK, `{"id":8,"name":"ops"}`)
	f.api.on("GET /me/tags", http.StatusInternalServerError, `boom`)

	res, err := f.tracker.CreateTag(context.Background(), "ops")
	if err != nil {
		t.Fatalf("create should stand: %v", err)
	}
	if res.Cached != -1 {
		t.Fatalf("expected failed refetch marker, got %+v", res)
	}
}

func TestProjects_ServesCacheUnlessFresh(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Acme"}})
	f.api.on("GET /me/projects", http.StatusOK, `[{"id":1,"name":"Acme"},{"id":2,"name":"Beta"}]`)

	got, err := f.tracker.Projects(context.Background(), false)
	if err != nil || len(got) != 1 || f.api.count("GET /me/projects") != 0 {
		t.Fatalf("expected cached projects, got %v %v", got, err)
	}
	got, err = f.tracker.Projects(context.Background(), true)
	if err != nil || len(got) != 2 || f.store.Projects.Len() != 2 {
		t.Fatalf("expected fresh projects, got %v %v", got, err)
	}
}

func TestProjectsPaginated_StopsOnShortPage(t *testing.T) {
	f := newFixture(t)
	full := make([]string, ProjectsPageSize)
	for i := range full {
		full[i] = fmt.Sprintf(`{"id":%d,"name":"p%d"}`, i+1, i+1)
	}
	f.api.routes["GET /me/projects/paginated"] = func(w http.ResponseWriter, r *http.Request, _ []byte) {
		if r.URL.Query().Get("page") == "1" {
			_, _ = w.Write([]byte("[" + strings.Join(full, ",") + "]"))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":999,"name":"last"}]}`))
	}

	projects, pages, err := f.tracker.ProjectsPaginated(context.Background())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if pages != 2 || len(projects) != ProjectsPageSize+1 || f.store.Projects.Len() != ProjectsPageSize+1 {
		t.Fatalf("pages=%d projects=%d", pages, len(projects))
	}
}

func TestProjectsPaginated_EmptyListingKeepsCache(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Acme"}})
	f.api.on("GET /me/projects/paginated", http.StatusOK, `[]`)

	projects, pages, err := f.tracker.ProjectsPaginated(context.Background())
	if err != nil || len(projects) != 0 || pages != 1 {
		t.Fatalf("got %v pages=%d err=%v", projects, pages, err)
	}
	if f.store.Projects.Len() != 1 || f.backend.saves != 0 {
		t.Fatalf("cache must be untouched: cached=%d saves=%d", f.store.Projects.Len(), f.backend.saves)
	}
	id := int64(1)
	if got := f.tracker.ProjectName(&id); got != "Acme" {
		t.Fatalf("ProjectName = %q", got)
	}
}

func TestTasksByProject_Groups(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Zeta"}, {ID: 2, Name: "Alpha"}})
	f.api.on("GET /me/tasks", http.StatusOK, `[
		{"id":1,"name":"t1","project_id":1},
		{"id":2,"name":"t2","project_id":2},
		{"id":3,"name":"t3","project_id":1}
	]`)

	listing, err := f.tracker.TasksByProject(context.Background())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if listing.Total != 3 || listing.FromCache || len(listing.Groups) != 2 {
		t.Fatalf("unexpected listing %+v", listing)
	}
	if listing.Groups[0].Project != "Alpha" || len(listing.Groups[1].Tasks) != 2 {
		t.Fatalf("unexpected grouping %+v", listing.Groups)
	}

	again, err := f.tracker.TasksByProject(context.Background())
	if err != nil || !again.FromCache || f.api.count("GET /me/tasks") != 1 {
		t.Fatalf("second listing should come from cache")
	}
}

func TestOrganizations_CountsCachedWorkspaces(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /me/organizations", http.StatusOK, `[{"id":10,"name":"Org","workspace_count":9},{"id":11,"name":"Other","workspace_count":4}]`)
	f.api.on("GET /me/workspaces", http.StatusOK, `[{"id":42,"name":"Main","organization_id":10},{"id":43,"name":"Side","organization_id":10}]`)

	orgs, err := f.tracker.Organizations(context.Background())
	if err != nil {
		t.Fatalf("orgs: %v", err)
	}
	if *orgs[0].Workspaces != 2 || *orgs[1].Workspaces != 4 {
		t.Fatalf("unexpected counts %d %d", *orgs[0].Workspaces, *orgs[1].Workspaces)
	}
	if !f.activity.has("(List): 2 organizations") {
		t.Fatalf("missing activity %v", f.activity.lines)
	}
}
