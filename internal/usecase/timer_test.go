package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"toggl-cli/internal/cache"
	"toggl-cli/internal/domain"
)

func TestStartTimer_SendsRunningSentinel(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Acme"}})
	f.api.on("POST /workspaces/42/time_entries", http.StatusOK, `{"id":100,"duration":-1,"start":"2025-08-07T15:00:00Z"}`)

	pid := int64(1)
	res, err := f.tracker.StartTimer(context.Background(), StartRequest{Description: " Dev work ", ProjectID: &pid, TagIDs: []int64{7, 8}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	body := f.api.last("POST /workspaces/42/time_entries").Body
	if body["duration"] != float64(-1) {
		t.Fatalf("expected duration -1, got %v", body["duration"])
	}
	if body["start"] != "2025-08-07T15:00:00Z" || body["created_with"] != CreatedWith {
		t.Fatalf("unexpected body %v", body)
	}
	if body["description"] != "Dev work" || body["project_id"] != float64(1) {
		t.Fatalf("unexpected body %v", body)
	}
	if !res.Entry.Running() {
		t.Fatalf("expected running entry back")
	}
	if res.Summary != "Dev work → Acme [tags: 2]" {
		t.Fatalf("summary = %q", res.Summary)
	}
	if !f.activity.has("(Start): Dev work → Acme [tags: 2]") {
		t.Fatalf("missing activity line: %v", f.activity.lines)
	}
}

func TestStartTimer_WithoutProject(t *testing.T) {
	f := newFixture(t)
	f.api.on("POST /workspaces/42/time_entries", http.StatusOK, `{"id":100,"duration":-1}`)

	res, err := f.tracker.StartTimer(context.Background(), StartRequest{Description: "Reading"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	body := f.api.last("POST /workspaces/42/time_entries").Body
	if _, ok := body["project_id"]; ok {
		t.Fatalf("project_id should be omitted, got %v", body)
	}
	if _, ok := body["tag_ids"]; ok {
		t.Fatalf("tag_ids should be omitted, got %v", body)
	}
	if res.Summary != "Reading (no project)" {
		t.Fatalf("summary = %q", res.Summary)
	}
}

func TestStartTimer_Preconditions(t *testing.T) {
	f := newFixture(t)
	f.store.Session.WorkspaceID = 0
	if _, err := f.tracker.StartTimer(context.Background(), StartRequest{Description: "x"}); !errors.Is(err, domain.ErrNoWorkspace) {
		t.Fatalf("expected ErrNoWorkspace, got %v", err)
	}
	f.store.Session = cache.Session{WorkspaceID: 42}
	if _, err := f.tracker.StartTimer(context.Background(), StartRequest{Description: "x"}); !errors.Is(err, domain.ErrNoWorkspace) {
		t.Fatalf("expected ErrNoWorkspace without token, got %v", err)
	}
	if len(f.api.calls) != 0 {
		t.Fatalf("no call expected, got %v", f.api.calls)
	}
}

func TestStartTimer_EmptyDescription(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.StartTimer(context.Background(), StartRequest{Description: "   "})
	var inErr *InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if len(f.api.calls) != 0 {
		t.Fatalf("no call expected")
	}
}

func TestStartTimer_APIErrorIsLogged(t *testing.T) {
	f := newFixture(t)
	f.api.on("POST /workspaces/42/time_entries", http.StatusBadRequest, `"bad"`)
	if _, err := f.tracker.StartTimer(context.Background(), StartRequest{Description: "x"}); err == nil {
		t.Fatalf("expected error")
	}
	if !f.activity.has(`(Error): API Error 400: "bad"`) {
		t.Fatalf("expected error in activity log, got %v", f.activity.lines)
	}
	if f.activity.has("(Start)") {
		t.Fatalf("failed start must not be reported as started")
	}
}

func TestStopTimer_NothingRunning(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /me/time_entries/current", http.StatusOK, `null`)
	if _, err := f.tracker.StopTimer(context.Background()); !errors.Is(err, ErrNothingRunning) {
		t.Fatalf("expected ErrNothingRunning, got %v", err)
	}
	if f.api.count("PATCH /workspaces/42/time_entries/5/stop") != 0 {
		t.Fatalf("no stop call expected")
	}
}

func TestStopTimer_UsesServerDuration(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /me/time_entries/current", http.StatusOK, `{"id":5,"description":"Dev","duration":-1,"start":"2025-08-07T14:00:00Z"}`)
	f.api.on("PATCH /workspaces/42/time_entries/5/stop", http.StatusOK, `{"id":5,"description":"Dev","duration":3600,"start":"2025-08-07T14:00:00Z"}`)

	res, err := f.tracker.StopTimer(context.Background())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if res.Entry.DurationSec < 0 || res.Entry.DurationSec != 3600 || res.Minutes != 60 {
		t.Fatalf("unexpected stop result %+v", res)
	}
	if !f.activity.has("(Stop): Dev (60 min)") {
		t.Fatalf("missing activity line %v", f.activity.lines)
	}
}

func TestCurrentTimer(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Acme"}})
	f.store.Tags.Replace([]domain.Tag{{ID: 7, Name: "dev"}})
	f.api.on("GET /me/time_entries/current", http.StatusOK,
		`{"id":5,"description":"Dev","project_id":1,"tag_ids":[7,99],"duration":-1,"start":"2025-08-07T14:30:00Z"}`)

	cur, err := f.tracker.CurrentTimer(context.Background())
	if err != nil || cur == nil {
		t.Fatalf("current: %+v %v", cur, err)
	}
	if cur.ProjectName != "Acme" || len(cur.TagNames) != 1 || cur.TagNames[0] != "dev" {
		t.Fatalf("unexpected resolution %+v", cur)
	}
	if cur.Elapsed.Minutes() != 30 {
		t.Fatalf("elapsed = %v", cur.Elapsed)
	}
}

func TestResumeLast_AlreadyRunning(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /me/time_entries/current", http.StatusOK, `{"id":5,"duration":-1}`)
	if _, err := f.tracker.ResumeLast(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if f.api.count("POST /workspaces/42/time_entries") != 0 || f.api.count("GET /me/time_entries") != 0 {
		t.Fatalf("nothing else should be called: %v", f.api.calls)
	}
}

func TestResumeLast_ReplaysMostRecentStopped(t *testing.T) {
	f := newFixture(t)
	f.store.Projects.Replace([]domain.Project{{ID: 1, Name: "Acme"}})
	f.api.on("GET /me/time_entries/current", http.StatusOK, `null`)
	f.api.on("GET /me/time_entries", http.StatusOK, `[
		{"id":3,"description":"running","duration":-1,"start":"2025-08-07T14:00:00Z"},
		{"id":2,"description":"newest","project_id":1,"tag_ids":[7],"billable":true,"duration":600,"start":"2025-08-07T12:00:00Z"},
		{"id":1,"description":"older","duration":600,"start":"2025-08-06T12:00:00Z"}
	]`)
	f.api.on("POST /workspaces/42/time_entries", http.StatusOK, `{"id":4,"duration":-1}`)

	res, err := f.tracker.ResumeLast(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	body := f.api.last("POST /workspaces/42/time_entries").Body
	if body["description"] != "newest" || body["billable"] != true || body["duration"] != float64(-1) {
		t.Fatalf("unexpected replay body %v", body)
	}
	if tags, _ := body["tag_ids"].([]any); len(tags) != 1 {
		t.Fatalf("tags not replayed: %v", body)
	}
	if res.Summary != "newest → Acme" || !f.activity.has("(Resume): newest → Acme") {
		t.Fatalf("summary = %q, log = %v", res.Summary, f.activity.lines)
	}
}

func TestResumeLast_NothingToResume(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /me/time_entries/current", http.StatusOK, `null`)
	f.api.on("GET /me/time_entries", http.StatusOK, `[{"id":3,"duration":-1}]`)
	if _, err := f.tracker.ResumeLast(context.Background()); !errors.Is(err, ErrNothingToResume) {
		t.Fatalf("expected ErrNothingToResume, got %v", err)
	}
}
