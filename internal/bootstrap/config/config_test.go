package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "http://localhost:8000/"
  timeout: 5s
database:
  dsn: "file::memory:?cache=shared"
polling:
  interval: 15s
table:
  page_size: 25
`)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Fatalf("API.BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Fatalf("API.Timeout = %s, want 5s", cfg.API.Timeout)
	}
	if cfg.Polling.Interval != 15*time.Second {
		t.Fatalf("Polling.Interval = %s, want 15s", cfg.Polling.Interval)
	}
	if cfg.Table.PageSize != 25 {
		t.Fatalf("Table.PageSize = %d, want 25", cfg.Table.PageSize)
	}
	if cfg.Notifications.UnreadLimit != 10 {
		t.Fatalf("Notifications.UnreadLimit = %d, want default 10", cfg.Notifications.UnreadLimit)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "polling:\n  interval: 15s\n")
	t.Setenv("FREIGHT_POLLING_INTERVAL", "45s")
	t.Setenv("VITE_API_URL", "https://api.example.test")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Polling.Interval != 45*time.Second {
		t.Fatalf("Polling.Interval = %s, want 45s", cfg.Polling.Interval)
	}
	if cfg.API.BaseURL != "https://api.example.test" {
		t.Fatalf("API.BaseURL = %q, want VITE_API_URL value", cfg.API.BaseURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want string
	}{
		{name: "relative base url", body: "api:\n  base_url: \"/api\"\n", want: "api.base_url"},
		{name: "zero polling", body: "polling:\n  interval: 0s\n", want: "polling.interval"},
		{name: "empty dsn", body: "database:\n  dsn: \"\"\n", want: "database.dsn"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeConfig(t, testCase.body))
			if err == nil || !strings.Contains(err.Error(), testCase.want) {
				t.Fatalf("Load() error = %v, want mention of %s", err, testCase.want)
			}
		})
	}
}

func TestLoadFallsBackWhenDefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(context.Background(), DefaultFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Fatalf("API.BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Table.PageSize != 10 {
		t.Fatalf("Table.PageSize = %d, want 10", cfg.Table.PageSize)
	}
}

func TestLoadUnknownPageSizeFallsBack(t *testing.T) {
	cfg, err := Load(context.Background(), writeConfig(t, "table:\n  page_size: 7\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Table.PageSize != 10 {
		t.Fatalf("Table.PageSize = %d, want 10", cfg.Table.PageSize)
	}
}

func TestConfigTOMLRoundTripsDurations(t *testing.T) {
	cfg, err := Load(context.Background(), writeConfig(t, "polling:\n  interval: 1m\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out, err := cfg.TOML()
	if err != nil {
		t.Fatalf("TOML() error = %v", err)
	}

	var decoded struct {
		Polling struct {
			Interval string `toml:"interval"`
		} `toml:"polling"`
	}
	if err := toml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("toml.Unmarshal() error = %v\n%s", err, out)
	}
	if decoded.Polling.Interval != "1m0s" {
		t.Fatalf("polling.interval = %q, want 1m0s", decoded.Polling.Interval)
	}
}
