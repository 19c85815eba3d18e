package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, env := range envBindings {
		t.Setenv(env, "")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Toggl.BaseURL != DefaultBaseURL || cfg.Toggl.ReportsURL != DefaultReportsURL {
		t.Fatalf("unexpected toggl defaults %+v", cfg.Toggl)
	}
	if cfg.State.Path != DefaultStatePath || cfg.Activity.Path != DefaultLogPath {
		t.Fatalf("unexpected paths %+v %+v", cfg.State, cfg.Activity)
	}
	if cfg.Export.Timezone != "UTC" {
		t.Fatalf("unexpected timezone %q", cfg.Export.Timezone)
	}
	if cfg.Toggl.APIToken != "" || cfg.Toggl.WorkspaceID != 0 {
		t.Fatalf("token and workspace should be empty by default")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toggl-cli.yaml")
	content := `
toggl:
  api_token: from-file
  workspace_id: 11
  base_url: http://localhost:8080/
state:
  path: /tmp/state.json
mysql:
  dsn: u:p@tcp(db:3306)/toggl
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TOGGL_WORKSPACE_ID", "22")
	t.Setenv("TOGGL_LOG_FILE", "/tmp/activity.txt")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Toggl.APIToken != "from-file" || cfg.Toggl.WorkspaceID != 22 {
		t.Fatalf("env should override file: %+v", cfg.Toggl)
	}
	if cfg.Toggl.BaseURL != "http://localhost:8080" {
		t.Fatalf("trailing slash should be trimmed: %q", cfg.Toggl.BaseURL)
	}
	if cfg.State.Path != "/tmp/state.json" || cfg.Activity.Path != "/tmp/activity.txt" {
		t.Fatalf("unexpected paths %+v %+v", cfg.State, cfg.Activity)
	}
}

func TestLoad_BadWorkspaceID(t *testing.T) {
	t.Setenv("TOGGL_WORKSPACE_ID", "abc")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-integer workspace id")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestMasked(t *testing.T) {
	var cfg Config
	cfg.Toggl.APIToken = "abcdef123456"
	cfg.MySQL.DSN = "user:secret@tcp(db:3306)/toggl"

	m := cfg.Masked()
	if m.Toggl.APIToken != "****3456" {
		t.Fatalf("token = %q", m.Toggl.APIToken)
	}
	if m.MySQL.DSN != "user:****@tcp(db:3306)/toggl" {
		t.Fatalf("dsn = %q", m.MySQL.DSN)
	}
	if cfg.Toggl.APIToken != "abcdef123456" {
		t.Fatalf("Masked must not modify the receiver")
	}
}
