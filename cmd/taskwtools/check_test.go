package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fentz26/taskwtools/internal/config"
)

func TestWriteConfigIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := config.DefaultConfig()
	c.TimewCommand = "timew-test"

	wrote, err := writeConfigIfMissing(path, c)
	if err != nil {
		t.Fatalf("writeConfigIfMissing failed: %v", err)
	}
	if !wrote {
		t.Fatal("Expected the config to be written")
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.TimewCommand != "timew-test" {
		t.Errorf("Expected saved timew command, got %q", loaded.TimewCommand)
	}

	if err := os.WriteFile(path, []byte("task_command: mytask\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	wrote, err = writeConfigIfMissing(path, config.DefaultConfig())
	if err != nil || wrote {
		t.Fatalf("Existing config should be kept, got wrote=%v err=%v", wrote, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "task_command: mytask\n" {
		t.Errorf("Existing config was overwritten: %q", data)
	}
}
