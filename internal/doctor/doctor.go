// Package doctor checks that the tools taskwtools drives are installed and
// that its taskwarrior hooks are in place.
package doctor

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status values for a Check.
const (
	StatusOK      = "ok"
	StatusMissing = "missing"
	StatusUnknown = "unknown"
)

// Check is the result of probing one tool or hook.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// OK reports whether the check passed.
func (c Check) OK() bool {
	return c.Status == StatusOK
}

// Hooks are the taskwarrior hook names taskwtools installs as.
var Hooks = []string{"on-modify", "on-add"}

// Detector probes the configured binaries and the hooks directory.
type Detector struct {
	TaskCommand  string
	TimewCommand string

	// HooksDir defaults to HooksDir().
	HooksDir string

	lookPath func(string) (string, error)
	version  func(string) string
}

// NewDetector creates a detector for the given task and timew commands.
func NewDetector(taskCmd, timewCmd string) *Detector {
	return &Detector{
		TaskCommand:  taskCmd,
		TimewCommand: timewCmd,
		HooksDir:     HooksDir(),
		lookPath:     exec.LookPath,
		version:      commandVersion,
	}
}

// Scan runs every check. Binaries come first, then one check per hook.
func (d *Detector) Scan() []Check {
	checks := []Check{
		d.detectBinary("task", d.TaskCommand),
		d.detectBinary("timew", d.TimewCommand),
	}
	for _, h := range Hooks {
		checks = append(checks, d.detectHook(h))
	}
	return checks
}

func (d *Detector) detectBinary(name, cmd string) Check {
	path, err := d.lookPath(cmd)
	if err != nil {
		return Check{Name: name, Status: StatusMissing, Path: cmd}
	}
	return Check{
		Name:    name,
		Status:  StatusOK,
		Path:    path,
		Version: d.version(path),
	}
}

// detectHook looks for an executable named after the hook, with or without
// a ".suffix" (taskwarrior runs every file starting with the hook name).
func (d *Detector) detectHook(hook string) Check {
	c := Check{Name: hook, Status: StatusMissing}
	if d.HooksDir == "" {
		c.Status = StatusUnknown
		return c
	}
	c.Path = d.HooksDir

	entries, err := os.ReadDir(d.HooksDir)
	if err != nil {
		return c
	}
	for _, e := range entries {
		name := e.Name()
		if name != hook && !strings.HasPrefix(name, hook+".") {
			continue
		}
		p := filepath.Join(d.HooksDir, name)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		c.Path = p
		if info.Mode()&0111 == 0 {
			c.Status = StatusUnknown
			c.Version = "not executable"
			continue
		}
		c.Status = StatusOK
		c.Version = ""
		return c
	}
	return c
}

// HooksDir returns $TASKDATA/hooks, or ~/.task/hooks.
func HooksDir() string {
	if dir := os.Getenv("TASKDATA"); dir != "" {
		return filepath.Join(dir, "hooks")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".task", "hooks")
}

func commandVersion(cmd string) string {
	out, err := exec.Command(cmd, "--version").Output()
	if err != nil {
		return ""
	}
	version := strings.TrimSpace(string(out))
	// First line only
	if idx := strings.Index(version, "\n"); idx > 0 {
		version = version[:idx]
	}
	if len(version) > 30 {
		version = version[:30]
	}
	return version
}
