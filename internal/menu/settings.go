package menu

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"toggl-cli/internal/cache"
	"toggl-cli/internal/usecase"
)

const tip = "Tip: Use option 7 in Settings to refresh cache"

func (m *Menu) settings(ctx context.Context) {
	for !m.eof {
		m.println("\n" + rule)
		m.println(titleStyle.Render("                   TOGGL SETTINGS"))
		m.println(rule)
		m.println("  1. View Organizations")
		m.println("  2. View Clients")
		m.println("  3. View Tasks")
		m.println("  4. List Projects")
		m.println("  5. Update User Profile")
		m.println("  6. Check API Quota")
		m.println("  7. Refresh Cache")
		m.println("  0. Back to Main Menu")
		m.println(rule)

		switch m.ask("\nSelect option: ") {
		case "1":
			m.organizations(ctx)
		case "2":
			m.clients(ctx)
		case "3":
			m.tasks(ctx)
		case "4":
			m.projectsPaginated(ctx)
		case "5":
			m.updateProfile(ctx)
		case "6":
			m.quota(ctx)
		case "7":
			m.refreshCache(ctx)
		case "0":
			return
		default:
			if !m.eof {
				m.fail("Invalid option. Please try again.")
			}
		}
	}
}

func (m *Menu) source(fromCache bool, what string) {
	if fromCache {
		m.println(mutedStyle.Render("Using cached " + what + " data..."))
	}
}

func (m *Menu) organizations(ctx context.Context) {
	orgs, err := m.t.Organizations(ctx)
	if err != nil {
		m.report("Failed to fetch organizations", err)
		return
	}
	if len(orgs) == 0 {
		m.info("You are not part of any organizations")
		return
	}
	m.header("YOUR ORGANIZATIONS")
	for i, v := range orgs {
		o := v.Organization
		name := o.Name
		if name == "" {
			name = "Unknown"
		}
		var roles string
		if o.Admin {
			roles += " [Admin]"
		}
		if o.Owner {
			roles += " [Owner]"
		}
		m.printf("%d. %s%s\n", i+1, name, roles)
		m.printf("   ID: %d\n", o.ID)
		if v.Workspaces != nil {
			m.printf("   Workspaces: %d\n", *v.Workspaces)
		}
		if o.PricingPlanID != nil {
			m.printf("   Plan ID: %d\n", *o.PricingPlanID)
		}
		m.println("")
	}
	m.ok(fmt.Sprintf("Total organizations: %d", len(orgs)))
	m.println(mutedStyle.Render(tip))
}

func (m *Menu) clients(ctx context.Context) {
	clients, fromCache, err := m.t.Clients(ctx)
	if err != nil {
		m.report("Failed to fetch clients", err)
		return
	}
	m.source(fromCache, "clients")
	if len(clients) == 0 {
		m.info("No clients found")
		return
	}
	m.header("YOUR CLIENTS")
	for i, c := range clients {
		m.printf("%d. %s\n", i+1, c.Name)
	}
	m.println("")
	m.ok(fmt.Sprintf("Total clients: %d", len(clients)))
	m.println(mutedStyle.Render(tip))
}

func (m *Menu) tasks(ctx context.Context) {
	listing, err := m.t.TasksByProject(ctx)
	if err != nil {
		m.report("Failed to fetch tasks", err)
		return
	}
	m.source(listing.FromCache, "tasks")
	if listing.Total == 0 {
		m.info("No tasks found")
		return
	}
	m.header("YOUR TASKS")
	for _, g := range listing.Groups {
		m.printf("\n%s:\n", g.Project)
		for _, task := range g.Tasks {
			active := "✓"
			if !task.Active {
				active = "✗"
			}
			estimate := ""
			if task.EstimatedSeconds != nil && *task.EstimatedSeconds > 0 {
				estimate = fmt.Sprintf(" (est: %dh)", *task.EstimatedSeconds/3600)
			}
			m.printf("  • %s [%s]%s\n", task.Name, active, estimate)
		}
	}
	m.println("")
	m.ok(fmt.Sprintf("Total tasks: %d", listing.Total))
	m.println(mutedStyle.Render(tip))
}

func (m *Menu) projectsPaginated(ctx context.Context) {
	m.info("Fetching projects (paginated)...")
	projects, pages, err := m.t.ProjectsPaginated(ctx)
	if err != nil {
		m.report(fmt.Sprintf("Failed to fetch page %d", pages), err)
		return
	}
	if len(projects) == 0 {
		m.info("No projects found")
		return
	}
	m.header("YOUR PROJECTS (Paginated)")
	for i, p := range projects {
		active := "✓"
		if !p.Active {
			active = "✗"
		}
		client := ""
		if p.ClientName != "" {
			client = " - " + p.ClientName
		}
		m.printf("%d. %s [%s]%s\n", i+1, p.Name, active, client)
	}
	m.println("")
	m.ok(fmt.Sprintf("Total projects: %d (loaded across %d page(s))", len(projects), pages))
	m.ok("Cache updated")
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (m *Menu) updateProfile(ctx context.Context) {
	u, err := m.t.Profile(ctx)
	if err != nil {
		m.report("Could not fetch user profile", err)
		return
	}
	m.header("UPDATE USER PROFILE")
	m.println("Current profile:")
	m.printf("  Name: %s\n", u.Fullname)
	m.printf("  Email: %s\n", u.Email)
	m.printf("  Timezone: %s\n", u.Timezone)
	if u.BeginningOfWeek >= 0 && u.BeginningOfWeek < len(weekdays) {
		m.printf("  Week starts: %s\n", weekdays[u.BeginningOfWeek])
	}
	m.println("\nWhat would you like to update?")
	m.println("  1. Full Name")
	m.println("  2. Email")
	m.println("  3. Timezone")
	m.println("  4. Week Start Day")
	m.println("  5. Default Workspace")
	m.println("  0. Cancel")

	var upd usecase.ProfileUpdate
	switch m.ask("\nSelect option: ") {
	case "0":
		return
	case "1":
		v := m.ask("New full name: ")
		upd.Fullname = &v
	case "2":
		v := m.ask("New email: ")
		upd.Email = &v
	case "3":
		m.println(mutedStyle.Render("Examples: America/New_York, Europe/London, Asia/Tokyo"))
		v := m.ask("\nNew timezone: ")
		upd.Timezone = &v
	case "4":
		for i, d := range weekdays {
			m.printf("%d. %s\n", i, d)
		}
		day, err := strconv.Atoi(m.ask("\nSelect day (0-6): "))
		if err != nil {
			m.fail("Invalid day selection")
			return
		}
		upd.BeginningOfWeek = &day
	case "5":
		workspaces, err := m.t.Workspaces(ctx)
		if err != nil || len(workspaces) == 0 {
			m.fail("Could not fetch workspaces")
			return
		}
		for i, ws := range workspaces {
			m.printf("%d. %s\n", i+1, ws.Name)
		}
		i, ok := m.pick("\nSelect workspace number: ", len(workspaces))
		if !ok {
			return
		}
		upd.DefaultWorkspaceID = &workspaces[i].ID
	default:
		m.fail("Invalid option")
		return
	}

	if _, err := m.t.UpdateProfile(ctx, upd); err != nil {
		if errors.Is(err, usecase.ErrNoChanges) {
			m.fail("No changes made")
			return
		}
		m.report("Failed to update profile", err)
		return
	}
	m.ok("Profile updated successfully")
}

// resetIn mirrors the coarse countdown shown for quota resets.
func resetIn(d time.Duration) string {
	s := int64(d.Seconds())
	h, mnt, sec := s/3600, (s%3600)/60, s%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, mnt)
	case mnt > 0:
		return fmt.Sprintf("%dm %ds", mnt, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

func (m *Menu) quota(ctx context.Context) {
	m.info("Checking API quota...")
	report, err := m.t.Quota(ctx)
	if err != nil {
		m.report("Could not fetch API quota information", err)
		return
	}
	m.header("API QUOTA STATUS")
	for _, l := range report.Lines {
		m.printf("\n%s\n", l.Name)
		m.printf("   Used: %d / %d requests\n", l.Used, l.Total)
		m.printf("   Remaining: %d\n", l.Remaining)
		if l.ResetsIn > 0 {
			m.printf("   Resets in: %s\n", resetIn(l.ResetsIn))
		}
		if l.Low {
			m.warn(" Warning: Low quota remaining!")
		}
	}
	if len(report.Extra) > 0 {
		m.println("\nQuota Information:")
		keys := make([]string, 0, len(report.Extra))
		for k := range report.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			m.printf("  %s: %v\n", k, report.Extra[k])
		}
	}
}

func (m *Menu) refreshCache(ctx context.Context) {
	m.println("\n" + rule)
	m.println(titleStyle.Render("                   REFRESH CACHE"))
	m.println(rule)
	m.println("Current cache status:")
	status := m.t.Cache.Status()
	for _, n := range cache.Names {
		state := failStyle.Render("✗ Empty")
		if status[n] > 0 {
			state = okStyle.Render("✓ Cached")
		}
		m.printf("  %s: %s\n", label(n), state)
	}
	m.println("")
	m.println("  1. Refresh All Cache")
	for i, n := range cache.Names {
		m.printf("  %d. Refresh %s\n", i+2, label(n))
	}
	m.println("  8. Clear All Cache")
	m.println("  0. Cancel")

	choice := m.ask("\nSelect option: ")
	switch choice {
	case "0", "":
		return
	case "1":
		m.info("Refreshing all cached data...")
		failed, err := m.t.RefreshAll(ctx)
		if err != nil {
			m.report("Refresh failed", err)
			return
		}
		if len(failed) > 0 {
			names := make([]string, len(failed))
			for i, n := range failed {
				names[i] = label(n)
			}
			m.warn("Could not refresh: " + strings.Join(names, ", "))
			return
		}
		m.ok("All cache refreshed successfully")
		return
	case "8":
		if !m.confirm("\nClear all cache? This will not refetch data. (yes/no): ") {
			m.fail("Cancelled")
			return
		}
		m.t.ClearCache()
		m.ok("All cache cleared")
		return
	}

	i, err := strconv.Atoi(choice)
	if err != nil || i < 2 || i > len(cache.Names)+1 {
		m.fail("Invalid option")
		return
	}
	name := cache.Names[i-2]
	m.info("Refreshing " + strings.ToLower(label(name)) + "...")
	if _, err := m.t.Refresh(ctx, name); err != nil {
		m.report("Failed to refresh "+strings.ToLower(label(name)), err)
		return
	}
	m.ok(label(name) + " cache refreshed")
}

func label(n cache.Name) string { return capitalize(string(n)) }
