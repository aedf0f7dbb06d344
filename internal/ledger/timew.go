package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fentz26/taskwtools/internal/connectors"
	"github.com/fentz26/taskwtools/internal/models"
)

// Timew implements Ledger by running the timew command.
type Timew struct {
	conn    connectors.Connector
	command string
	out     io.Writer
}

// NewTimew returns a ledger that runs command through conn. Human-readable
// output of mutating commands is copied to out; pass io.Discard to drop it.
func NewTimew(conn connectors.Connector, command string, out io.Writer) *Timew {
	if out == nil {
		out = io.Discard
	}
	return &Timew{conn: conn, command: command, out: out}
}

func (t *Timew) run(ctx context.Context, op string, args ...string) (*connectors.ExecResult, error) {
	argv := append([]string{op}, args...)
	result, err := t.conn.Execute(ctx, t.command, argv)
	if err != nil {
		return nil, fmt.Errorf("timew %s: %w", op, err)
	}
	if result.ExitCode != 0 {
		return nil, &Error{Op: op, Args: argv, Code: result.ExitCode, Stderr: result.Stderr}
	}
	return result, nil
}

func (t *Timew) mutate(ctx context.Context, op string, args ...string) error {
	result, err := t.run(ctx, op, args...)
	if err != nil {
		return err
	}
	io.WriteString(t.out, result.Stdout)
	return nil
}

// Export implements Ledger.
func (t *Timew) Export(ctx context.Context, filter ...string) ([]models.Interval, error) {
	result, err := t.run(ctx, "export", filter...)
	if err != nil {
		return nil, err
	}
	return DecodeExport([]byte(result.Stdout))
}

// DecodeExport parses timew export output and fills in interval ids when
// the timew release does not export them.
func DecodeExport(data []byte) ([]models.Interval, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var intervals []models.Interval
	if err := json.Unmarshal(data, &intervals); err != nil {
		return nil, fmt.Errorf("parsing timew JSON: %w", err)
	}
	for i := range intervals {
		if intervals[i].ID == 0 {
			intervals[i].ID = len(intervals) - i
		}
	}
	return intervals, nil
}

// Start implements Ledger.
func (t *Timew) Start(ctx context.Context, tags []string) error {
	return t.mutate(ctx, "start", tags...)
}

// Stop implements Ledger.
func (t *Timew) Stop(ctx context.Context) error {
	return t.mutate(ctx, "stop")
}

// Continue implements Ledger.
func (t *Timew) Continue(ctx context.Context, id int) error {
	return t.mutate(ctx, "continue", IntervalRef(id))
}

// Tag implements Ledger.
func (t *Timew) Tag(ctx context.Context, id int, tags []string) error {
	return t.mutate(ctx, "tag", append([]string{IntervalRef(id)}, tags...)...)
}

// Untag implements Ledger.
func (t *Timew) Untag(ctx context.Context, id int, tags []string) error {
	return t.mutate(ctx, "untag", append([]string{IntervalRef(id)}, tags...)...)
}
