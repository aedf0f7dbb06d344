// Package connectors defines how taskwtools runs the external task and time
// tracking programs.
package connectors

import "context"

// ExecResult holds the result of a command execution.
type ExecResult struct {
	Command  string   `json:"command"`
	Args     []string `json:"args"`
	ExitCode int      `json:"exit_code"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// Connector defines the interface for executing commands.
type Connector interface {
	// Name returns the connector identifier.
	Name() string

	// Execute runs a command and returns the result. A non-zero exit status
	// is reported through ExecResult.ExitCode, not as an error.
	Execute(ctx context.Context, cmd string, args []string) (*ExecResult, error)

	// IsAllowed checks if a command is allowed to execute.
	IsAllowed(cmd string, args []string) bool
}
