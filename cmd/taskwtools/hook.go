package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/timesync"
	"github.com/spf13/cobra"
)

// maxHookLine bounds one JSON task line read from taskwarrior.
const maxHookLine = 16 << 20

var onModifyCmd = &cobra.Command{
	Use:   "on-modify",
	Short: "taskwarrior on-modify hook",
	Long: `Reads the task before and after a modification as two JSON lines on
stdin, updates timewarrior to match and echoes the modified task.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHook(cmd, true)
	},
}

var onAddCmd = &cobra.Command{
	Use:                "on-add",
	Short:              "taskwarrior on-add hook",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHook(cmd, false)
	},
}

func runHook(cmd *cobra.Command, modify bool) error {
	// stdout belongs to taskwarrior; timew chatter goes to stderr.
	a := newApp(cmd.ErrOrStderr())
	defer a.Close()
	return handleHook(cmd.Context(), a.engine(), cmd.InOrStdin(), cmd.OutOrStdout(), modify)
}

// handleHook applies one hook event and echoes the new task line unchanged.
func handleHook(ctx context.Context, e *timesync.Engine, in io.Reader, out io.Writer, modify bool) error {
	old, next, raw, err := readHookInput(in, modify)
	if err != nil {
		return err
	}
	if err := e.OnModify(ctx, old, next); err != nil {
		return err
	}
	if _, err := out.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("write task: %w", err)
	}
	return nil
}

// readHookInput parses the hook's stdin. on-add sends one task line;
// on-modify sends the old and the new task, where an empty or "{}" old line
// means the task is being created. The raw new line is returned for echoing.
func readHookInput(in io.Reader, modify bool) (old, next *models.Task, raw []byte, err error) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxHookLine)

	var lines [][]byte
	for sc.Scan() {
		lines = append(lines, append([]byte(nil), bytes.TrimSpace(sc.Bytes())...))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("read hook input: %w", err)
	}
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}

	switch {
	case len(lines) == 0:
		return nil, nil, nil, fmt.Errorf("hook input is empty")
	case !modify && len(lines) > 1, modify && len(lines) > 2:
		return nil, nil, nil, fmt.Errorf("hook input has %d lines", len(lines))
	}

	raw = lines[len(lines)-1]
	next = &models.Task{}
	if err := json.Unmarshal(raw, next); err != nil {
		return nil, nil, nil, fmt.Errorf("decode new task: %w", err)
	}

	if len(lines) == 2 && len(lines[0]) > 0 && !bytes.Equal(lines[0], []byte("{}")) {
		old = &models.Task{}
		if err := json.Unmarshal(lines[0], old); err != nil {
			return nil, nil, nil, fmt.Errorf("decode old task: %w", err)
		}
	}
	return old, next, raw, nil
}
