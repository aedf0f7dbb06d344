// Package localexec provides a local command executor with an allowlist.
package localexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fentz26/taskwtools/internal/connectors"
)

// LocalExec implements the Connector interface for local command execution.
// Only the programs it was constructed with may be run.
type LocalExec struct {
	workDir string
	allowed map[string]bool
}

// New creates a new LocalExec connector that may run the named programs.
func New(workDir string, programs ...string) *LocalExec {
	allowed := make(map[string]bool, len(programs))
	for _, p := range programs {
		allowed[p] = true
	}
	return &LocalExec{workDir: workDir, allowed: allowed}
}

// Name returns the connector identifier.
func (l *LocalExec) Name() string {
	return "localexec"
}

// IsAllowed checks if a command is in the allowlist. Every invocation needs
// at least one argument; neither task nor timew is run bare.
func (l *LocalExec) IsAllowed(cmd string, args []string) bool {
	if !l.allowed[cmd] {
		return false
	}
	return len(args) > 0
}

// Execute runs a command if it's in the allowlist.
func (l *LocalExec) Execute(ctx context.Context, cmd string, args []string) (*connectors.ExecResult, error) {
	if !l.IsAllowed(cmd, args) {
		return nil, fmt.Errorf("command not allowed: %s %s", cmd, strings.Join(args, " "))
	}

	execCmd := exec.CommandContext(ctx, cmd, args...)
	if l.workDir != "" {
		execCmd.Dir = l.workDir
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	err := execCmd.Run()

	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		} else {
			return nil, fmt.Errorf("exec %s: %w", cmd, err)
		}
	}

	return &connectors.ExecResult{
		Command:  cmd,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
