// Package config loads taskwtools settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config location.
const EnvPath = "TASKWTOOLS_CONFIG"

// Config holds taskwtools configuration.
type Config struct {
	// TaskCommand is the taskwarrior binary.
	TaskCommand string `yaml:"task_command"`
	// TimewCommand is the timewarrior binary.
	TimewCommand string `yaml:"timew_command"`
	// TaskRC lists rc.* overrides passed to every task invocation.
	TaskRC []string `yaml:"task_rc"`
	// Debug enables debug logging, as does setting DEBUG.
	Debug bool `yaml:"debug"`
	// Journal configures the record of ledger mutations.
	Journal JournalConfig `yaml:"journal"`
}

// JournalConfig configures the sync journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		TaskCommand:  "task",
		TimewCommand: "timew",
		TaskRC:       []string{},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "~/.taskwtools/journal.db",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// DefaultPath returns $TASKWTOOLS_CONFIG, or ~/.taskwtools/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return ExpandHome(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, ".taskwtools", "config.yaml"), nil
}

// LoadConfigFromHome loads configuration from DefaultPath.
func LoadConfigFromHome() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// SaveConfig saves configuration to a YAML file, creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TaskCommand) == "" {
		return fmt.Errorf("task_command must not be empty")
	}
	if strings.TrimSpace(c.TimewCommand) == "" {
		return fmt.Errorf("timew_command must not be empty")
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return fmt.Errorf("journal.path must be set when the journal is enabled")
	}
	for _, rc := range c.TaskRC {
		if !strings.HasPrefix(rc, "rc.") {
			return fmt.Errorf("task_rc entry %q must start with \"rc.\"", rc)
		}
	}
	return nil
}

// JournalPath returns the journal location with ~ expanded.
func (c *Config) JournalPath() (string, error) {
	return ExpandHome(c.Journal.Path)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
