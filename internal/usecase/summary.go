package usecase

import (
	"cmp"
	"context"
	"slices"
	"time"

	"toggl-cli/internal/domain"
)

// Bucket is one aggregated line of a summary.
type Bucket struct {
	Key     string
	Seconds int64
}

// Summary aggregates stopped entries. Running entries (duration <= 0) are
// left out of every total.
type Summary struct {
	From, To  time.Time
	Entries   int
	Total     int64
	Billable  int64
	ByProject []Bucket // resolved project names, largest first
	ByTag     []Bucket // raw tag strings as sent by the server, largest first
	ByDay     []Bucket // YYYY-MM-DD, newest first
}

// Summarize groups entries by project name, tag, and day. Project ids go
// through projectName; entry tags are used verbatim and are not resolved
// against the tag cache.
func Summarize(entries []domain.TimeEntry, projectName func(*int64) string) Summary {
	s := Summary{Entries: len(entries)}
	byProject := map[string]int64{}
	byTag := map[string]int64{}
	byDay := map[string]int64{}

	for _, e := range entries {
		d := e.DurationSec
		if d <= 0 {
			continue
		}
		s.Total += d
		byProject[projectName(e.ProjectID)] += d
		for _, tag := range e.Tags {
			byTag[tag] += d
		}
		if !e.Start.IsZero() {
			byDay[e.Day()] += d
		}
		if e.Billable {
			s.Billable += d
		}
	}

	s.ByProject = largestFirst(byProject)
	s.ByTag = largestFirst(byTag)
	s.ByDay = make([]Bucket, 0, len(byDay))
	for k, v := range byDay {
		s.ByDay = append(s.ByDay, Bucket{Key: k, Seconds: v})
	}
	slices.SortFunc(s.ByDay, func(a, b Bucket) int { return cmp.Compare(b.Key, a.Key) })
	return s
}

func largestFirst(m map[string]int64) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, v := range m {
		out = append(out, Bucket{Key: k, Seconds: v})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if c := cmp.Compare(b.Seconds, a.Seconds); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// WeeklySummary aggregates the last seven days ending now.
func (t *Tracker) WeeklySummary(ctx context.Context) (Summary, error) {
	if err := t.requireWorkspace(); err != nil {
		return Summary{}, err
	}
	to := t.now().UTC()
	from := to.Add(-7 * 24 * time.Hour)

	entries, err := t.Toggl.TimeEntries(ctx, from, to)
	if err != nil {
		return Summary{}, t.remote("list time entries", err)
	}
	s := Summarize(entries, t.ProjectName)
	s.From, s.To = from, to
	return s, nil
}
