//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	msql "toggl-cli/internal/adapter/mysql"
	"toggl-cli/internal/domain"
	"toggl-cli/internal/usecase"
)

type fakeToggl struct {
	entries  []domain.TimeEntry
	projects []domain.Project
}

func (f fakeToggl) ListTimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error) {
	return f.entries, nil
}

func (f fakeToggl) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return f.projects, nil
}

func startMySQL(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "pass",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = mysqlC.Terminate(context.Background()) })

	host, err := mysqlC.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := mysqlC.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true", "test", "pass", host, port.Port(), "testdb")
}

func count(t *testing.T, ctx context.Context, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestExportToMySQL_UpsertsEntriesAndProjects(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	dsn := startMySQL(t, ctx)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	sink, err := msql.NewClient(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("mysql client: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })

	start := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	stop := start.Add(90 * time.Minute)
	projectID := int64(123)
	taskID := int64(9)
	fake := fakeToggl{
		entries: []domain.TimeEntry{
			{ID: 1, Description: "Dev work", ProjectID: &projectID, TaskID: &taskID, WorkspaceID: 456, Tags: []string{"dev", "feature"}, TagIDs: []int64{1, 2}, Billable: true, Start: start, Stop: &stop, DurationSec: 5400},
			{ID: 2, Description: "Meeting", WorkspaceID: 456, Tags: []string{"meeting"}, Start: start.Add(2 * time.Hour), Stop: &stop, DurationSec: 3600},
			{ID: 3, Description: "Running", WorkspaceID: 456, Start: start.Add(3 * time.Hour), DurationSec: -1},
		},
		projects: []domain.Project{
			{ID: projectID, WorkspaceID: 456, Name: "Acme", Active: true, Color: "#06aaf5"},
		},
	}

	uc := &usecase.ExportUseCase{Log: logger, Toggl: fake, Sink: sink}
	if err := uc.Run(ctx, start.Add(-time.Hour), start.Add(4*time.Hour)); err != nil {
		t.Fatalf("export run: %v", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	defer db.Close()

	if n := count(t, ctx, db, "toggl_time_entries"); n != 3 {
		t.Fatalf("expected 3 entry rows, got %d", n)
	}
	if n := count(t, ctx, db, "toggl_projects"); n != 1 {
		t.Fatalf("expected 1 project row, got %d", n)
	}

	var (
		tags    string
		task    sql.NullInt64
		billing bool
	)
	if err := db.QueryRowContext(ctx, "SELECT tags, task_id, billable FROM toggl_time_entries WHERE id = 1").Scan(&tags, &task, &billing); err != nil {
		t.Fatalf("select entry: %v", err)
	}
	if tags != `["dev","feature"]` || !task.Valid || task.Int64 != 9 || !billing {
		t.Fatalf("unexpected row: tags=%s task=%v billable=%v", tags, task, billing)
	}

	// Run again with an edited entry to assert upsert semantics.
	fake.entries[1].Description = "Standup"
	uc.Toggl = fake
	if err := uc.Run(ctx, start.Add(-time.Hour), start.Add(4*time.Hour)); err != nil {
		t.Fatalf("export run 2: %v", err)
	}
	if n := count(t, ctx, db, "toggl_time_entries"); n != 3 {
		t.Fatalf("expected 3 rows after upsert, got %d", n)
	}
	var desc string
	if err := db.QueryRowContext(ctx, "SELECT description FROM toggl_time_entries WHERE id = 2").Scan(&desc); err != nil {
		t.Fatalf("select description: %v", err)
	}
	if desc != "Standup" {
		t.Fatalf("description not updated: %q", desc)
	}
}

func TestExportToMySQL_MigrationsAreIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	dsn := startMySQL(t, ctx)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	for i := 0; i < 2; i++ {
		sink, err := msql.NewClient(ctx, dsn, logger)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		_ = sink.Close()
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	defer db.Close()
	if n := count(t, ctx, db, "schema_migrations"); n != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", n)
	}
}
