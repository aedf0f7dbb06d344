package taskstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fentz26/taskwtools/internal/connectors"
	"github.com/fentz26/taskwtools/internal/models"
)

// baseOverrides keep task quiet and prevent it from running hooks (including
// our own) while we only read.
var baseOverrides = []string{
	"rc.verbose=nothing",
	"rc.confirmation=off",
	"rc.hooks=off",
	"rc.json.array=on",
}

// Taskwarrior implements Store by running "task ... export".
type Taskwarrior struct {
	conn    connectors.Connector
	command string
	rc      []string
}

// NewTaskwarrior returns a store that runs command through conn. rc holds
// extra "rc.name=value" overrides appended to every invocation.
func NewTaskwarrior(conn connectors.Connector, command string, rc []string) *Taskwarrior {
	return &Taskwarrior{conn: conn, command: command, rc: rc}
}

// Args returns the command line used to evaluate q.
func (tw *Taskwarrior) Args(q Query) []string {
	args := append([]string(nil), baseOverrides...)
	args = append(args, tw.rc...)

	var terms []string
	regex := false
	for _, c := range q.Clauses {
		if c.Op == OpRegex {
			regex = true
		}
		terms = append(terms, encodeClause(c))
	}
	// task treats .has values as patterns unless regex is off.
	if regex {
		args = append(args, "rc.regex=on")
	} else {
		args = append(args, "rc.regex=off")
	}
	args = append(args, terms...)
	for _, t := range q.Include {
		args = append(args, "+"+t)
	}
	for _, t := range q.Exclude {
		args = append(args, "-"+t)
	}
	return append(args, "export")
}

func encodeClause(c Clause) string {
	switch {
	case c.Op == OpIs && (c.Field == "id" || c.Field == "uuid"):
		return c.Field + ":" + c.Value
	case c.Op == OpIs:
		return c.Field + ".is:" + c.Value
	case c.Op == OpPrefix:
		return c.Field + ".startswith:" + c.Value
	default:
		// OpRegex relies on rc.regex=on turning .has into a pattern match.
		return c.Field + ".has:" + c.Value
	}
}

// Filter runs the export and decodes its JSON output.
func (tw *Taskwarrior) Filter(ctx context.Context, q Query) ([]models.Task, error) {
	args := tw.Args(q)
	result, err := tw.conn.Execute(ctx, tw.command, args)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		// Some releases exit non-zero instead of exporting an empty list.
		if strings.TrimSpace(result.Stdout) == "" && strings.Contains(result.Stderr, "No match") {
			return nil, nil
		}
		return nil, fmt.Errorf("%s export %s: exit %d: %s", tw.command, q, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	tasks, err := DecodeExport([]byte(result.Stdout))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", tw.command, strings.Join(args, " "), err)
	}
	return tasks, nil
}

// DecodeExport parses task export output. Very old releases emit
// comma-separated objects without the surrounding brackets.
func DecodeExport(data []byte) ([]models.Task, error) {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") {
		s = "[" + s + "]"
	}
	var tasks []models.Task
	if err := json.Unmarshal([]byte(s), &tasks); err != nil {
		return nil, fmt.Errorf("parsing task JSON: %w", err)
	}
	return tasks, nil
}
