package menu

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"toggl-cli/internal/domain"
	"toggl-cli/internal/usecase"
)

func (m *Menu) login(ctx context.Context) {
	m.header("TOGGL LOGIN")
	token := m.ask("Enter your Toggl API token: ")
	if token == "" {
		m.fail("API token cannot be empty")
		return
	}
	user, err := m.t.Login(ctx, token)
	if err != nil {
		m.report("Login failed. Please check your API token.", err)
		return
	}
	name := user.Fullname
	if name == "" {
		name = "User"
	}
	m.ok(fmt.Sprintf("Welcome, %s!", name))

	workspaces, err := m.t.Workspaces(ctx)
	if err != nil || len(workspaces) == 0 {
		m.fail("Could not fetch workspaces")
		return
	}
	m.header("SELECT WORKSPACE")
	for i, ws := range workspaces {
		m.printf("%d. %s\n", i+1, ws.Name)
	}
	i, ok := m.pick("\nSelect workspace number: ", len(workspaces))
	if !ok {
		return
	}
	m.info("Fetching projects and tags for cache...")
	sel, err := m.t.SelectWorkspace(ctx, workspaces[i])
	m.ok("Selected workspace: " + sel.Workspace.Name)
	if sel.Projects > 0 {
		m.ok(fmt.Sprintf("Cached %d projects", sel.Projects))
	}
	if sel.Tags > 0 {
		m.ok(fmt.Sprintf("Cached %d tags", sel.Tags))
	}
	if err != nil {
		m.report("Failed to save config", err)
		return
	}
	m.ok("Config saved to " + sel.SavedTo)
}

func (m *Menu) startTimer(ctx context.Context) {
	if !m.t.Session().Ready() {
		m.report("", domain.ErrNoWorkspace)
		return
	}
	m.header("START TIMER")
	desc := m.ask("Enter task description: ")
	if desc == "" {
		m.fail("Description cannot be empty")
		return
	}

	req := usecase.StartRequest{Description: desc}
	if m.askYes("Track to a project? (y/n) [n]: ", "Skipping project.") {
		if p, ok := m.chooseProject(ctx, "\nSelect project (number or P): ", false); ok {
			req.ProjectID = p
		}
	}
	if m.askYes("Add tags? (y/n) [n]: ", "Skipping tags.") {
		req.TagIDs = m.chooseTags(ctx, "\nEnter tags (numbers, T for new, comma-separated): ", false)
	}

	res, err := m.t.StartTimer(ctx, req)
	if err != nil {
		m.report("Failed to start timer", err)
		return
	}
	m.ok("Timer started: " + res.Summary)
}

// chooseProject lists projects (cache first) and reads a number, P to create
// one inline, or 0 for no project when allowNone is set. ok is false when
// nothing usable was chosen.
func (m *Menu) chooseProject(ctx context.Context, prompt string, allowNone bool) (*int64, bool) {
	projects, err := m.t.Projects(ctx, false)
	if err != nil {
		m.report("Could not load projects", err)
		return nil, false
	}
	if len(projects) == 0 {
		m.info("No projects found.")
		if m.askYes("Create a new project? (y/n) [n]: ", "") {
			return m.quickProject(ctx)
		}
		return nil, false
	}

	m.header("YOUR PROJECTS")
	if allowNone {
		m.println("0. No project")
	}
	for i, p := range projects {
		active := "✓"
		if !p.Active {
			active = "✗"
		}
		m.printf("%d. %s [%s]\n", i+1, p.Name, active)
	}
	m.println("P. Create New Project")

	choice := m.ask(prompt)
	if strings.EqualFold(choice, "p") {
		return m.quickProject(ctx)
	}
	n, err := strconv.Atoi(choice)
	switch {
	case err == nil && allowNone && n == 0:
		return nil, true
	case err == nil && n >= 1 && n <= len(projects):
		id := projects[n-1].ID
		return &id, true
	}
	m.fail("Invalid selection, no project assigned")
	return nil, false
}

func (m *Menu) quickProject(ctx context.Context) (*int64, bool) {
	name := m.ask("New project name: ")
	if name == "" {
		m.fail("Project name cannot be empty")
		return nil, false
	}
	p, err := m.t.QuickCreateProject(ctx, name)
	if err != nil {
		m.report("Failed to create project", err)
		return nil, false
	}
	m.ok(fmt.Sprintf("Created project: %s (ID: %d)", p.Name, p.ID))
	return &p.ID, true
}

// chooseTags reads a comma-separated mix of tag numbers and T (create
// inline). With allowNone, a lone 0 clears the tags and returns an empty,
// non-nil slice.
func (m *Menu) chooseTags(ctx context.Context, prompt string, allowNone bool) []int64 {
	tags, err := m.t.Tags(ctx, false)
	if err != nil {
		m.report("Could not load tags", err)
		return nil
	}
	if len(tags) == 0 {
		m.info("No tags found.")
		if m.askYes("Create a new tag? (y/n) [n]: ", "") {
			if id, ok := m.quickTag(ctx); ok {
				return []int64{id}
			}
		}
		return nil
	}

	m.header("YOUR TAGS")
	if allowNone {
		m.println("0. No tags")
	}
	for i, tag := range tags {
		m.printf("%d. %s\n", i+1, tag.Name)
	}
	m.println("T. Create New Tag")

	input := m.ask(prompt)
	if allowNone && input == "0" {
		return []int64{}
	}
	var ids []int64
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if strings.EqualFold(item, "t") {
			if id, ok := m.quickTag(ctx); ok {
				ids = append(ids, id)
			}
			continue
		}
		n, err := strconv.Atoi(item)
		if err == nil && n >= 1 && n <= len(tags) {
			ids = append(ids, tags[n-1].ID)
		}
	}
	if len(ids) == 0 {
		m.fail("No valid tags selected")
	}
	return ids
}

func (m *Menu) quickTag(ctx context.Context) (int64, bool) {
	name := m.ask("New tag name: ")
	if name == "" {
		m.fail("Tag name cannot be empty")
		return 0, false
	}
	tag, err := m.t.QuickCreateTag(ctx, name)
	if err != nil {
		m.report("Failed to create tag", err)
		return 0, false
	}
	m.ok(fmt.Sprintf("Created tag: %s (ID: %d)", tag.Name, tag.ID))
	return tag.ID, true
}

func (m *Menu) stopTimer(ctx context.Context) {
	res, err := m.t.StopTimer(ctx)
	if errors.Is(err, usecase.ErrNothingRunning) {
		m.info("No timer is currently running")
		return
	}
	if err != nil {
		m.report("Failed to stop timer", err)
		return
	}
	m.ok(fmt.Sprintf("Timer stopped: %s (%d minutes)", res.Description, res.Minutes))
}

func (m *Menu) resumeLast(ctx context.Context) {
	res, err := m.t.ResumeLast(ctx)
	switch {
	case errors.Is(err, usecase.ErrAlreadyRunning):
		m.warn("Timer is already running. Stop it first.")
	case errors.Is(err, usecase.ErrNothingToResume):
		m.info("No previous entries to resume")
	case err != nil:
		m.report("Failed to resume timer", err)
	default:
		m.ok("Resumed: " + res.Summary)
	}
}

func (m *Menu) currentTimer(ctx context.Context) {
	cur, err := m.t.CurrentTimer(ctx)
	if err != nil {
		m.report("Failed to fetch current timer", err)
		return
	}
	if cur == nil {
		m.info("No timer is currently running")
		return
	}
	desc := cur.Entry.Description
	if desc == "" {
		desc = "Untitled"
	}
	m.header("CURRENT TIMER")
	m.println("Description: " + desc)
	m.println("Project:     " + cur.ProjectName)
	if len(cur.TagNames) > 0 {
		m.println("Tags:        " + strings.Join(cur.TagNames, ", "))
	}
	if !cur.Entry.Start.IsZero() {
		m.println("Started:     " + cur.Entry.Start.Local().Format("15:04:05"))
	}
	m.println("Elapsed:     " + okStyle.Render(hm(int64(cur.Elapsed.Seconds()))))
}
