package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
task_command: /opt/bin/task
task_rc:
  - rc.data.location=/tmp/tasks
journal:
  enabled: false
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.TaskCommand != "/opt/bin/task" {
		t.Errorf("Expected task_command override, got %q", cfg.TaskCommand)
	}
	if cfg.TimewCommand != "timew" {
		t.Errorf("Expected default timew_command, got %q", cfg.TimewCommand)
	}
	if !reflect.DeepEqual(cfg.TaskRC, []string{"rc.data.location=/tmp/tasks"}) {
		t.Errorf("Unexpected task_rc %v", cfg.TaskRC)
	}
	if cfg.Journal.Enabled {
		t.Error("Expected journal disabled")
	}
	if cfg.Journal.Path != "~/.taskwtools/journal.db" {
		t.Errorf("Expected default journal path to survive, got %q", cfg.Journal.Path)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "task_command: [", "parsing config file"},
		{"empty command", "timew_command: \"\"", "timew_command"},
		{"bad rc", "task_rc: [verbose=off]", "task_rc"},
		{"journal without path", "journal: {enabled: true, path: \"\"}", "journal.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.TaskRC = []string{"rc.context=none"}

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, cfg)
	}

	if err := SaveConfig(path, nil); err == nil {
		t.Error("Expected error saving nil config")
	}
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/etc/taskwtools.yaml")
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath failed: %v", err)
	}
	if path != "/etc/taskwtools.yaml" {
		t.Errorf("Expected env override, got %q", path)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~/.taskwtools/journal.db", "/home/tester/.taskwtools/journal.db"},
		{"~", "/home/tester"},
		{"/var/lib/journal.db", "/var/lib/journal.db"},
		{"~other/journal.db", "~other/journal.db"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
