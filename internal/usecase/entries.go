package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"toggl-cli/internal/domain"
)

// RecentLimit caps how many entries are offered for edit or delete.
const RecentLimit = 10

// EntryView is a stopped entry with its project resolved for display.
type EntryView struct {
	Entry       domain.TimeEntry
	ProjectName string
	HasProject  bool
}

type EntryList struct {
	Entries []EntryView
	Total   int64
}

func (t *Tracker) view(entries []domain.TimeEntry) EntryList {
	var list EntryList
	for _, e := range entries {
		list.Entries = append(list.Entries, EntryView{
			Entry:       e,
			ProjectName: t.ProjectName(e.ProjectID),
			HasProject:  e.ProjectID != nil && *e.ProjectID != 0,
		})
		list.Total += e.DurationSec
	}
	return list
}

// stoppedNewestFirst drops running entries and orders the rest by start, newest first.
func stoppedNewestFirst(entries []domain.TimeEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.DurationSec > 0 {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.TimeEntry) int { return b.Start.Compare(a.Start) })
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TodayEntries lists stopped entries since local midnight, newest first.
func (t *Tracker) TodayEntries(ctx context.Context) (EntryList, error) {
	if err := t.requireWorkspace(); err != nil {
		return EntryList{}, err
	}
	now := t.now()
	entries, err := t.Toggl.TimeEntries(ctx, startOfDay(now), now)
	if err != nil {
		return EntryList{}, t.remote("list time entries", err)
	}
	return t.view(stoppedNewestFirst(entries)), nil
}

// RecentEntries lists up to RecentLimit stopped entries from the last seven
// days, newest first. These are the candidates for EditEntry and DeleteEntry.
func (t *Tracker) RecentEntries(ctx context.Context) (EntryList, error) {
	if err := t.requireWorkspace(); err != nil {
		return EntryList{}, err
	}
	now := t.now().UTC()
	entries, err := t.Toggl.TimeEntries(ctx, startOfDay(now.AddDate(0, 0, -7)), now)
	if err != nil {
		return EntryList{}, t.remote("list time entries", err)
	}
	stopped := stoppedNewestFirst(entries)
	if len(stopped) > RecentLimit {
		stopped = stopped[:RecentLimit]
	}
	return t.view(stopped), nil
}

type EditField int

const (
	EditDescription EditField = iota + 1
	EditProject
	EditTags
	EditBillable
)

// EntryEdit changes exactly one field. For EditProject a nil ProjectID clears
// the project; for EditTags an empty TagIDs clears the tags.
type EntryEdit struct {
	Field       EditField
	Description string
	ProjectID   *int64
	TagIDs      []int64
	Billable    bool
}

// EditEntry updates one field of entry. start, duration and workspace_id are
// resubmitted unchanged because the update call requires them.
func (t *Tracker) EditEntry(ctx context.Context, entry domain.TimeEntry, edit EntryEdit) (domain.TimeEntry, error) {
	if err := t.requireWorkspace(); err != nil {
		return domain.TimeEntry{}, err
	}
	fields := map[string]any{}
	switch edit.Field {
	case EditDescription:
		desc := strings.TrimSpace(edit.Description)
		if desc == "" {
			return domain.TimeEntry{}, ErrNoChanges
		}
		fields["description"] = desc
	case EditProject:
		if edit.ProjectID == nil || *edit.ProjectID == 0 {
			fields["project_id"] = nil
		} else {
			fields["project_id"] = *edit.ProjectID
		}
	case EditTags:
		ids := edit.TagIDs
		if ids == nil {
			ids = []int64{}
		}
		fields["tag_ids"] = ids
	case EditBillable:
		fields["billable"] = edit.Billable
	default:
		return domain.TimeEntry{}, &InputError{Field: "edit", Reason: "has no field selected"}
	}
	fields["start"] = entry.Start.Format(time.RFC3339)
	fields["duration"] = entry.DurationSec
	fields["workspace_id"] = t.Cache.Session.WorkspaceID

	updated, err := t.Toggl.UpdateTimeEntry(ctx, t.Cache.Session.WorkspaceID, entry.ID, fields)
	if err != nil {
		return domain.TimeEntry{}, t.remote("update entry", err)
	}
	t.Activity.Record("Edit", fmt.Sprintf("Updated entry #%d", entry.ID))
	return updated, nil
}

func (t *Tracker) DeleteEntry(ctx context.Context, entry domain.TimeEntry) error {
	if err := t.requireWorkspace(); err != nil {
		return err
	}
	if err := t.Toggl.DeleteTimeEntry(ctx, t.Cache.Session.WorkspaceID, entry.ID); err != nil {
		return t.remote("delete entry", err)
	}
	desc := entry.Description
	if desc == "" {
		desc = "Untitled"
	}
	t.Activity.Record("Delete", desc)
	return nil
}

type SearchKind int

const (
	SearchDescription SearchKind = iota + 1
	SearchProject
	SearchTag
	SearchDate
)

// SearchWindow is how far back Search looks.
const SearchWindow = 30 * 24 * time.Hour

// SearchQuery selects stopped entries from the search window. Only the field
// matching Kind is read.
type SearchQuery struct {
	Kind      SearchKind
	Keyword   string
	ProjectID int64
	TagID     int64
	Date      string // YYYY-MM-DD prefix of the entry start
}

func (q SearchQuery) match(e domain.TimeEntry) bool {
	switch q.Kind {
	case SearchDescription:
		return strings.Contains(strings.ToLower(e.Description), strings.ToLower(q.Keyword))
	case SearchProject:
		return e.ProjectID != nil && *e.ProjectID == q.ProjectID
	case SearchTag:
		return slices.Contains(e.TagIDs, q.TagID)
	case SearchDate:
		return strings.HasPrefix(e.Start.Format(time.RFC3339), q.Date)
	}
	return false
}

func (t *Tracker) Search(ctx context.Context, q SearchQuery) (EntryList, error) {
	if err := t.requireWorkspace(); err != nil {
		return EntryList{}, err
	}
	if q.Kind < SearchDescription || q.Kind > SearchDate {
		return EntryList{}, &InputError{Field: "search type", Reason: "is not valid"}
	}
	now := t.now().UTC()
	entries, err := t.Toggl.TimeEntries(ctx, now.Add(-SearchWindow), now)
	if err != nil {
		return EntryList{}, t.remote("list time entries", err)
	}
	var matched []domain.TimeEntry
	for _, e := range stoppedNewestFirst(entries) {
		if q.match(e) {
			matched = append(matched, e)
		}
	}
	return t.view(matched), nil
}

// sortByName orders any named records alphabetically, used for grouped listings.
func sortByName[T any](items []T, name func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int { return cmp.Compare(name(a), name(b)) })
}
