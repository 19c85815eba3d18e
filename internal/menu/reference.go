package menu

import (
	"context"
	"fmt"
)

func (m *Menu) listProjects(ctx context.Context) {
	m.info("Fetching projects from Toggl...")
	projects, err := m.t.Projects(ctx, true)
	if err != nil {
		m.report("Failed to fetch projects", err)
		return
	}
	if len(projects) == 0 {
		m.info("No projects found")
		return
	}
	m.header("YOUR PROJECTS (Updated)")
	for i, p := range projects {
		active := "✓"
		if !p.Active {
			active = "✗"
		}
		m.printf("%d. %s [%s]\n", i+1, p.Name, active)
	}
	m.println("")
	m.ok(fmt.Sprintf("Cache updated with %d projects", len(projects)))
}

func (m *Menu) listTags(ctx context.Context) {
	m.info("Fetching tags from Toggl...")
	tags, err := m.t.Tags(ctx, true)
	if err != nil {
		m.report("Failed to fetch tags", err)
		return
	}
	if len(tags) == 0 {
		m.info("No tags found")
		return
	}
	m.header("YOUR TAGS (Updated)")
	for i, tag := range tags {
		m.printf("%d. %s\n", i+1, tag.Name)
	}
	m.println("")
	m.ok(fmt.Sprintf("Cache updated with %d tags", len(tags)))
}

func (m *Menu) createProject(ctx context.Context) {
	m.header("CREATE PROJECT")
	name := m.ask("Project name: ")
	if name == "" {
		m.fail("Project name cannot be empty")
		return
	}
	private := m.askYes("Private project? (y/n): ", "Creating a public project.")
	res, err := m.t.CreateProject(ctx, name, private)
	if err != nil {
		m.report("Failed to create project", err)
		return
	}
	m.ok(fmt.Sprintf("Project created: %s (ID: %d)", res.Name, res.ID))
	if res.Cached >= 0 {
		m.ok(fmt.Sprintf("Cache refreshed (%d projects)", res.Cached))
	} else {
		m.warn("Project created but the project cache could not be refreshed")
	}
}

func (m *Menu) createTag(ctx context.Context) {
	m.header("CREATE TAG")
	name := m.ask("Tag name: ")
	if name == "" {
		m.fail("Tag name cannot be empty")
		return
	}
	res, err := m.t.CreateTag(ctx, name)
	if err != nil {
		m.report("Failed to create tag", err)
		return
	}
	m.ok(fmt.Sprintf("Tag created: %s (ID: %d)", res.Name, res.ID))
	if res.Cached >= 0 {
		m.ok(fmt.Sprintf("Cache refreshed (%d tags)", res.Cached))
	} else {
		m.warn("Tag created but the tag cache could not be refreshed")
	}
}

func (m *Menu) openReports() {
	if err := m.t.OpenReports(); err != nil {
		m.fail("Failed to open browser: " + err.Error())
		return
	}
	m.ok("Opening Toggl Reports in browser...")
}
