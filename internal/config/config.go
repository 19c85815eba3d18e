package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds file- and environment-driven configuration.
type Config struct {
	Toggl    TogglConfig    `yaml:"toggl" mapstructure:"toggl"`
	State    StateConfig    `yaml:"state" mapstructure:"state"`
	Activity ActivityConfig `yaml:"activity" mapstructure:"activity"`
	MySQL    MySQLConfig    `yaml:"mysql" mapstructure:"mysql"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
}

type TogglConfig struct {
	APIToken    string `yaml:"api_token" mapstructure:"api_token"`
	WorkspaceID int64  `yaml:"workspace_id" mapstructure:"workspace_id"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"` // default: https://api.track.toggl.com
	ReportsURL  string `yaml:"reports_url" mapstructure:"reports_url"`
}

// StateConfig locates the persisted session and cache.
type StateConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ActivityConfig locates the human-readable activity log.
type ActivityConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"` // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
}

type ExportConfig struct {
	Timezone string `yaml:"timezone" mapstructure:"timezone"` // e.g., UTC (default), Europe/Berlin
}

// Defaults.
const (
	DefaultBaseURL    = "https://api.track.toggl.com"
	DefaultReportsURL = "https://track.toggl.com/reports/"
	DefaultStatePath  = "toggl_config.json"
	DefaultLogPath    = "toggl_cli_logs.txt"
)

var envBindings = map[string]string{
	"toggl.api_token":    "TOGGL_API_TOKEN",
	"toggl.workspace_id": "TOGGL_WORKSPACE_ID",
	"toggl.base_url":     "TOGGL_BASE_URL",
	"toggl.reports_url":  "TOGGL_REPORTS_URL",
	"state.path":         "TOGGL_STATE_FILE",
	"activity.path":      "TOGGL_LOG_FILE",
	"mysql.dsn":          "MYSQL_DSN",
	"export.timezone":    "SYNC_TZ",
}

// Load reads defaults, then the optional YAML file at path, then the
// environment. Later sources win.
func Load(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetDefault("toggl.base_url", DefaultBaseURL)
	v.SetDefault("toggl.reports_url", DefaultReportsURL)
	v.SetDefault("state.path", DefaultStatePath)
	v.SetDefault("activity.path", DefaultLogPath)
	v.SetDefault("export.timezone", "UTC")
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return cfg, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.Toggl.APIToken = strings.TrimSpace(cfg.Toggl.APIToken)
	cfg.Toggl.BaseURL = strings.TrimRight(cfg.Toggl.BaseURL, "/")
	return cfg, nil
}

// Masked returns a copy that is safe to print.
func (c Config) Masked() Config {
	c.Toggl.APIToken = mask(c.Toggl.APIToken)
	c.MySQL.DSN = maskDSN(c.MySQL.DSN)
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// maskDSN hides the password in user:pass@tcp(...) style DSNs.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	creds := dsn[:at]
	colon := strings.Index(creds, ":")
	if colon < 0 {
		return dsn
	}
	return creds[:colon] + ":****" + dsn[at:]
}
