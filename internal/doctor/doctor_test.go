package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestDetector(t *testing.T, installed map[string]string) *Detector {
	t.Helper()
	d := NewDetector("task", "timew")
	d.HooksDir = t.TempDir()
	d.lookPath = func(cmd string) (string, error) {
		if p, ok := installed[cmd]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
	d.version = func(path string) string {
		return "v-" + filepath.Base(path)
	}
	return d
}

func writeHook(t *testing.T, dir, name string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatalf("write hook: %v", err)
	}
}

func TestScanBinaries(t *testing.T) {
	d := newTestDetector(t, map[string]string{"task": "/usr/bin/task"})

	checks := d.Scan()
	if len(checks) != 2+len(Hooks) {
		t.Fatalf("Expected %d checks, got %d", 2+len(Hooks), len(checks))
	}

	task := checks[0]
	if task.Name != "task" || !task.OK() || task.Path != "/usr/bin/task" || task.Version != "v-task" {
		t.Errorf("Unexpected task check %+v", task)
	}
	timew := checks[1]
	if timew.Name != "timew" || timew.Status != StatusMissing || timew.Path != "timew" {
		t.Errorf("Unexpected timew check %+v", timew)
	}
}

func TestScanHooks(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]os.FileMode
		status map[string]string
	}{
		{
			name:   "none installed",
			files:  nil,
			status: map[string]string{"on-modify": StatusMissing, "on-add": StatusMissing},
		},
		{
			name:   "suffixed names",
			files:  map[string]os.FileMode{"on-modify.taskwtools": 0755, "on-add.taskwtools": 0755},
			status: map[string]string{"on-modify": StatusOK, "on-add": StatusOK},
		},
		{
			name:   "not executable",
			files:  map[string]os.FileMode{"on-modify.taskwtools": 0644, "on-add": 0755},
			status: map[string]string{"on-modify": StatusUnknown, "on-add": StatusOK},
		},
		{
			name:   "other hooks ignored",
			files:  map[string]os.FileMode{"on-modifyx": 0755, "on-exit.foo": 0755},
			status: map[string]string{"on-modify": StatusMissing, "on-add": StatusMissing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDetector(t, nil)
			for name, mode := range tt.files {
				writeHook(t, d.HooksDir, name, mode)
			}
			for _, c := range d.Scan()[2:] {
				if c.Status != tt.status[c.Name] {
					t.Errorf("%s: status = %s, want %s", c.Name, c.Status, tt.status[c.Name])
				}
			}
		})
	}
}

func TestMissingHooksDir(t *testing.T) {
	d := newTestDetector(t, nil)
	d.HooksDir = filepath.Join(d.HooksDir, "absent")
	for _, c := range d.Scan()[2:] {
		if c.Status != StatusMissing {
			t.Errorf("%s: status = %s, want missing", c.Name, c.Status)
		}
	}

	d.HooksDir = ""
	for _, c := range d.Scan()[2:] {
		if c.Status != StatusUnknown {
			t.Errorf("%s: status = %s, want unknown", c.Name, c.Status)
		}
	}
}

func TestHooksDirFromTaskData(t *testing.T) {
	t.Setenv("TASKDATA", "/data/tasks")
	if got := HooksDir(); got != filepath.Join("/data/tasks", "hooks") {
		t.Errorf("HooksDir() = %q", got)
	}
}
