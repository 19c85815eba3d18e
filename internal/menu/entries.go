package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toggl-cli/internal/domain"
	"toggl-cli/internal/usecase"
)

func untitled(e domain.TimeEntry) string {
	if e.Description == "" {
		return "Untitled"
	}
	return e.Description
}

func (m *Menu) todayEntries(ctx context.Context) {
	list, err := m.t.TodayEntries(ctx)
	if err != nil {
		m.report("Failed to fetch entries", err)
		return
	}
	if len(list.Entries) == 0 {
		m.info("No entries today")
		return
	}
	m.header("TODAY'S ENTRIES")
	for _, v := range list.Entries {
		project := ""
		if v.HasProject {
			project = " → " + v.ProjectName
		}
		m.printf("• %s%s (%d min)\n", untitled(v.Entry), project, v.Entry.DurationSec/60)
	}
	m.printf("\nTotal today: %s\n", hm(list.Total))
}

func (m *Menu) weeklySummary(ctx context.Context) {
	s, err := m.t.WeeklySummary(ctx)
	if err != nil {
		m.report("Failed to fetch entries", err)
		return
	}
	if s.Entries == 0 {
		m.info("No entries in the past 7 days")
		return
	}
	m.header("WEEKLY SUMMARY (Last 7 Days)")

	m.println("\nBy Project:")
	for _, b := range s.ByProject {
		m.printf("  %s: %s\n", b.Key, hm(b.Seconds))
	}
	if len(s.ByTag) > 0 {
		m.println("\nBy Tag:")
		for _, b := range s.ByTag {
			m.printf("  %s: %s\n", b.Key, hm(b.Seconds))
		}
	}
	m.println("\nBy Day:")
	for _, b := range s.ByDay {
		m.printf("  %s: %s\n", b.Key, hm(b.Seconds))
	}

	m.printf("\nTotal Time: %s\n", okStyle.Render(hm(s.Total)))
	if s.Billable > 0 {
		m.printf("Billable Time: %s\n", hm(s.Billable))
	}
}

func (m *Menu) printEntryLine(prefix string, v usecase.EntryView) {
	m.printf("%s%s → %s (%d min) [%s]\n", prefix, untitled(v.Entry), v.ProjectName, v.Entry.DurationSec/60, v.Entry.Day())
}

// chooseRecent lists the editable entries and returns the one picked; ok is
// false on cancel or bad input.
func (m *Menu) chooseRecent(ctx context.Context, title, verb, prompt string) (domain.TimeEntry, bool) {
	list, err := m.t.RecentEntries(ctx)
	if err != nil {
		m.report("Failed to fetch entries", err)
		return domain.TimeEntry{}, false
	}
	if len(list.Entries) == 0 {
		m.info("No recent entries to " + verb)
		return domain.TimeEntry{}, false
	}
	m.header(title)
	for i, v := range list.Entries {
		m.printEntryLine(fmt.Sprintf("%d. ", i+1), v)
	}
	i, ok := m.pick(prompt, len(list.Entries))
	if !ok {
		return domain.TimeEntry{}, false
	}
	return list.Entries[i].Entry, true
}

func (m *Menu) editEntry(ctx context.Context) {
	entry, ok := m.chooseRecent(ctx, "SELECT ENTRY TO EDIT", "edit", "\nSelect entry number (0 to cancel): ")
	if !ok {
		return
	}

	m.header("WHAT TO EDIT?")
	m.println("1. Description")
	m.println("2. Project")
	m.println("3. Tags")
	m.println("4. Mark as Billable/Non-billable")

	var edit usecase.EntryEdit
	switch m.ask("\nSelect what to edit: ") {
	case "1":
		edit = usecase.EntryEdit{Field: usecase.EditDescription, Description: m.ask("New description: ")}
	case "2":
		id, ok := m.chooseProject(ctx, "\nSelect project (number, P for new, 0 for none): ", true)
		if !ok {
			return
		}
		edit = usecase.EntryEdit{Field: usecase.EditProject, ProjectID: id}
	case "3":
		ids := m.chooseTags(ctx, "\nEnter tags (numbers, T for new, 0 for none): ", true)
		if ids == nil {
			m.fail("No changes made")
			return
		}
		edit = usecase.EntryEdit{Field: usecase.EditTags, TagIDs: ids}
	case "4":
		edit = usecase.EntryEdit{Field: usecase.EditBillable, Billable: m.askYes("Billable? (y/n): ", "")}
	default:
		m.fail("Invalid option")
		return
	}

	if _, err := m.t.EditEntry(ctx, entry, edit); err != nil {
		if errors.Is(err, usecase.ErrNoChanges) {
			m.fail("No changes made")
			return
		}
		m.report("Failed to update entry", err)
		return
	}
	m.ok("Entry updated successfully")
}

func (m *Menu) deleteEntry(ctx context.Context) {
	entry, ok := m.chooseRecent(ctx, "SELECT ENTRY TO DELETE", "delete", "\nSelect entry number to delete (0 to cancel): ")
	if !ok {
		return
	}
	if !m.confirm(fmt.Sprintf("Delete '%s'? (yes/no): ", untitled(entry))) {
		m.println("Cancelled")
		return
	}
	if err := m.t.DeleteEntry(ctx, entry); err != nil {
		m.report("Failed to delete entry", err)
		return
	}
	m.ok("Entry deleted: " + untitled(entry))
}

func (m *Menu) searchEntries(ctx context.Context) {
	if !m.t.Session().Ready() {
		m.report("", domain.ErrNoWorkspace)
		return
	}
	m.header("SEARCH ENTRIES")
	m.println("1. Search by description")
	m.println("2. Search by project")
	m.println("3. Search by tag")
	m.println("4. Search by date")

	var q usecase.SearchQuery
	switch m.ask("\nSelect search type: ") {
	case "1":
		q = usecase.SearchQuery{Kind: usecase.SearchDescription, Keyword: m.ask("Enter description keyword: ")}
	case "2":
		projects, err := m.t.Projects(ctx, false)
		if err != nil || len(projects) == 0 {
			m.fail("No projects available")
			return
		}
		m.header("PROJECTS")
		for i, p := range projects {
			m.printf("%d. %s\n", i+1, p.Name)
		}
		i, ok := m.pick("\nSelect project number: ", len(projects))
		if !ok {
			return
		}
		q = usecase.SearchQuery{Kind: usecase.SearchProject, ProjectID: projects[i].ID}
	case "3":
		tags, err := m.t.Tags(ctx, false)
		if err != nil || len(tags) == 0 {
			m.fail("No tags available")
			return
		}
		m.header("TAGS")
		for i, tag := range tags {
			m.printf("%d. %s\n", i+1, tag.Name)
		}
		i, ok := m.pick("\nSelect tag number: ", len(tags))
		if !ok {
			return
		}
		q = usecase.SearchQuery{Kind: usecase.SearchTag, TagID: tags[i].ID}
	case "4":
		date := m.ask("Enter date (YYYY-MM-DD): ")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			m.fail("Invalid date format")
			return
		}
		q = usecase.SearchQuery{Kind: usecase.SearchDate, Date: date}
	default:
		m.fail("Invalid option")
		return
	}

	list, err := m.t.Search(ctx, q)
	if err != nil {
		m.report("Search failed", err)
		return
	}
	if len(list.Entries) == 0 {
		m.info("No matching entries found")
		return
	}
	m.header(fmt.Sprintf("FOUND %d ENTRIES", len(list.Entries)))
	for _, v := range list.Entries {
		m.printEntryLine("• ", v)
	}
	m.printf("\nTotal: %s\n", hm(list.Total))
}
