package usecase

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tg "toggl-cli/internal/adapter/toggl"
	"toggl-cli/internal/cache"
)

// fakeAPI serves canned responses keyed by "METHOD /path" (path without the
// /api/v9 prefix and without query) and records every call it receives.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]func(w http.ResponseWriter, r *http.Request, body []byte)
	calls  []call
}

type call struct {
	Key   string
	Query string
	Body  map[string]any
}

func (f *fakeAPI) on(key string, status int, body string) {
	f.routes[key] = func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Key == key {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(key string) call {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Key == key {
			return f.calls[i]
		}
	}
	return call{}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/v9")
	body, _ := io.ReadAll(r.Body)
	c := call{Key: key, Query: r.URL.RawQuery}
	if len(body) > 0 {
		_ = json.Unmarshal(body, &c.Body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	h, ok := f.routes[key]
	f.mu.Unlock()
	if !ok {
		http.Error(w, "no route for "+key, http.StatusNotFound)
		return
	}
	h(w, r, body)
}

type memBackend struct {
	data  []byte
	saves int
}

func (m *memBackend) Load() ([]byte, error) { return m.data, nil }
func (m *memBackend) Save(b []byte) error   { m.saves++; m.data = b; return nil }
func (m *memBackend) Location() string      { return "mem.json" }

type activityLog struct{ lines []string }

func (a *activityLog) Record(kind, msg string) { a.lines = append(a.lines, "("+kind+"): "+msg) }

func (a *activityLog) has(prefix string) bool {
	for _, l := range a.lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

type fixture struct {
	api      *fakeAPI
	tracker  *Tracker
	store    *cache.Store
	backend  *memBackend
	activity *activityLog
}

var fixedNow = time.Date(2025, 8, 7, 15, 0, 0, 0, time.UTC)

// newFixture returns a tracker logged in to workspace 42.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := &fakeAPI{routes: map[string]func(http.ResponseWriter, *http.Request, []byte){}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := &memBackend{}
	act := &activityLog{}
	store := cache.NewStore(backend, act, log)
	store.Session = cache.Session{APIToken: "tok", WorkspaceID: 42}

	tr := &Tracker{
		Log:      log,
		Toggl:    tg.NewClient(srv.URL, "tok", 42, log),
		Cache:    store,
		Activity: act,
		Now:      func() time.Time { return fixedNow },
	}
	return &fixture{api: api, tracker: tr, store: store, backend: backend, activity: act}
}
