package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"toggl-cli/internal/domain"
	"toggl-cli/internal/migrate"
)

// Client implements ports.Sink by upserting into MySQL tables.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN and brings the
// schema up to date.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := migrate.Apply(ctx, db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: migrate: %w", err)
	}
	return &Client{db: db, log: log}, nil
}

const upsertEntry = `
INSERT INTO toggl_time_entries
  (id, description, project_id, task_id, workspace_id, tags, tag_ids, billable, start, stop, duration_sec)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  description=VALUES(description),
  project_id=VALUES(project_id),
  task_id=VALUES(task_id),
  workspace_id=VALUES(workspace_id),
  tags=VALUES(tags),
  tag_ids=VALUES(tag_ids),
  billable=VALUES(billable),
  start=VALUES(start),
  stop=VALUES(stop),
  duration_sec=VALUES(duration_sec);
`

// SyncEntries upserts entries. Tags and tag ids are stored as JSON text.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	n, err := upsert(ctx, c.db, upsertEntry, entries, func(e domain.TimeEntry) []any {
		tags, _ := json.Marshal(e.Tags)
		tagIDs, _ := json.Marshal(e.TagIDs)
		var stop any
		if e.Stop != nil {
			stop = e.Stop.UTC()
		}
		return []any{
			e.ID,
			e.Description,
			nullable(e.ProjectID),
			nullable(e.TaskID),
			e.WorkspaceID,
			string(tags),
			string(tagIDs),
			e.Billable,
			e.Start.UTC(),
			stop,
			e.DurationSec,
		}
	})
	if err != nil {
		return fmt.Errorf("mysql: upsert entries: %w", err)
	}
	c.log.Info("mysql sink upserted entries", slog.Int("count", n))
	return nil
}

const upsertProject = `
INSERT INTO toggl_projects
  (id, workspace_id, name, active, is_private, color, client_id, at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  workspace_id=VALUES(workspace_id),
  name=VALUES(name),
  active=VALUES(active),
  is_private=VALUES(is_private),
  color=VALUES(color),
  client_id=VALUES(client_id),
  at=VALUES(at);
`

// SyncProjects upserts projects.
func (c *Client) SyncProjects(ctx context.Context, projects []domain.Project) error {
	n, err := upsert(ctx, c.db, upsertProject, projects, func(p domain.Project) []any {
		var at any
		if !p.At.IsZero() {
			at = p.At.UTC()
		}
		return []any{p.ID, p.WorkspaceID, p.Name, p.Active, p.Private, p.Color, nullable(p.ClientID), at}
	})
	if err != nil {
		return fmt.Errorf("mysql: upsert projects: %w", err)
	}
	c.log.Info("mysql sink upserted projects", slog.Int("count", n))
	return nil
}

// upsert executes q once per row inside a single transaction. Any failure
// rolls back the whole batch.
func upsert[T any](ctx context.Context, db *sql.DB, q string, rows []T, args func(T) []any) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, args(r)...); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Close closes the underlying DB. Not wired via interface to keep ports minimal.
func (c *Client) Close() error { return c.db.Close() }
