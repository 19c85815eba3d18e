// Package menu is the interactive numbered-menu front end over usecase.Tracker.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"toggl-cli/internal/adapter/toggl"
	"toggl-cli/internal/domain"
	"toggl-cli/internal/usecase"
)

const rule = "============================================================"

// Menu reads choices line by line and runs one command at a time.
type Menu struct {
	t   *usecase.Tracker
	in  *bufio.Reader
	out io.Writer
	log *slog.Logger

	eof bool
}

func New(t *usecase.Tracker, in io.Reader, out io.Writer, log *slog.Logger) *Menu {
	return &Menu{t: t, in: bufio.NewReader(in), out: out, log: log}
}

// Run shows the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) {
	for {
		m.mainMenu()
		choice := m.ask("\nSelect option: ")
		if choice == "0" || (m.eof && choice == "") {
			break
		}
		m.dispatch(ctx, choice)
		if m.eof {
			break
		}
	}
	m.println("\n" + infoStyle.Render("Goodbye!"))
}

// dispatch runs one command. A panic inside it is reported and logged so
// the loop can carry on.
func (m *Menu) dispatch(ctx context.Context, choice string) {
	defer func() {
		if r := recover(); r != nil {
			m.fail(fmt.Sprintf("Unexpected error: %v", r))
			m.t.Activity.Record("Error", fmt.Sprint(r))
			m.log.Error("command panicked", slog.String("choice", choice), slog.Any("panic", r))
		}
	}()

	switch strings.ToLower(choice) {
	case "1":
		m.login(ctx)
	case "2":
		m.startTimer(ctx)
	case "3":
		m.stopTimer(ctx)
	case "4":
		m.resumeLast(ctx)
	case "5":
		m.currentTimer(ctx)
	case "6":
		m.todayEntries(ctx)
	case "7":
		m.weeklySummary(ctx)
	case "8":
		m.searchEntries(ctx)
	case "9":
		m.editEntry(ctx)
	case "10":
		m.deleteEntry(ctx)
	case "11":
		m.listProjects(ctx)
	case "12":
		m.listTags(ctx)
	case "13":
		m.createProject(ctx)
	case "14":
		m.createTag(ctx)
	case "o":
		m.openReports()
	case "s":
		m.settings(ctx)
	default:
		m.fail("Invalid option. Please try again.")
	}
}

func (m *Menu) mainMenu() {
	m.println("\n" + rule)
	m.println(titleStyle.Render("                   TOGGL TIME TRACKER"))
	m.println(rule)
	m.println("  ACTIONS                    │  REPORTS & MANAGEMENT")
	m.println(strings.Repeat("─", 29) + "┼" + strings.Repeat("─", 30))
	m.println("  1. Login / Setup           │     6. Today's Entries")
	m.println("  2. Start Timer             │     7. Weekly Summary")
	m.println("  3. Stop Timer              │     8. Search Entries")
	m.println("  4. Resume Last Timer       │     9. Edit Entry")
	m.println("  5. Current Timer           │    10. Delete Entry")
	m.println("                             │    11. List Projects")
	m.println("  CREATE | 0. Exit           │    12. List Tags")
	m.println(strings.Repeat("─", 29) + "┼" + strings.Repeat("─", 30))
	m.println("  13. Create Project         │     O. Open Reports (Web)")
	m.println("  14. Create Tag             │     S. Toggl Settings")
	m.println(rule)
}

func (m *Menu) header(title string) {
	m.println("\n" + titleStyle.Render("=== "+title+" ==="))
}

func (m *Menu) println(s string) { fmt.Fprintln(m.out, s) }

func (m *Menu) printf(format string, args ...any) { fmt.Fprintf(m.out, format, args...) }

func (m *Menu) ok(s string)   { m.println(okStyle.Render("✓ " + s)) }
func (m *Menu) fail(s string) { m.println(failStyle.Render("✗ " + s)) }
func (m *Menu) warn(s string) { m.println(warnStyle.Render("⚠ " + s)) }
func (m *Menu) info(s string) { m.println(infoStyle.Render("ℹ " + s)) }

// report renders a command error. Gateway failures are already in the
// activity log; here they are only shown.
func (m *Menu) report(action string, err error) {
	var (
		apiErr *toggl.APIError
		netErr *toggl.NetworkError
		inErr  *usecase.InputError
	)
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		m.fail("Please login first")
	case errors.Is(err, domain.ErrNoWorkspace):
		m.fail("Please login and select a workspace first")
	case errors.As(err, &inErr):
		m.fail(capitalize(inErr.Error()))
	case errors.As(err, &apiErr):
		m.fail(apiErr.Error())
		m.fail(action)
	case errors.As(err, &netErr):
		m.fail(netErr.Error())
		m.fail(action)
	default:
		m.fail(capitalize(err.Error()))
	}
}

// ask prints prompt and returns the trimmed line. At end of input it
// returns "" and marks the menu finished.
func (m *Menu) ask(prompt string) string {
	m.printf("%s", prompt)
	line, err := m.in.ReadString('\n')
	if err != nil {
		m.eof = true
		if !errors.Is(err, io.EOF) {
			m.log.Warn("read input", slog.String("error", err.Error()))
		}
	}
	return strings.TrimSpace(line)
}

// askYes accepts y/yes; n, no and empty mean no. Anything else is reported
// and treated as no.
func (m *Menu) askYes(prompt, skipping string) bool {
	a := strings.ToLower(m.ask(prompt))
	switch a {
	case "y", "yes":
		return true
	case "n", "no", "":
		return false
	}
	m.fail(fmt.Sprintf("'%s' is not valid. Enter 'y' or 'n'. %s", a, skipping))
	return false
}

// confirm requires the literal word "yes".
func (m *Menu) confirm(prompt string) bool {
	return strings.ToLower(m.ask(prompt)) == "yes"
}

// pick reads a 1-based index into a list of n items.
func (m *Menu) pick(prompt string, n int) (int, bool) {
	raw := m.ask(prompt)
	i, err := strconv.Atoi(raw)
	if err != nil {
		m.fail("Please enter a valid number")
		return 0, false
	}
	if i < 1 || i > n {
		if i != 0 {
			m.fail("Invalid selection")
		}
		return 0, false
	}
	return i - 1, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
