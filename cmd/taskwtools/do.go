package main

import (
	"fmt"
	"log"

	"github.com/fentz26/taskwtools/internal/fql"
	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/timesync"
	"github.com/spf13/cobra"
)

var taskDoCmd = &cobra.Command{
	Use:   "taskdo [task...]",
	Short: "Track time against a task",
	Long: `Starts timewarrior tracking for the task, tagged with its label path and
tags. If the task is already being tracked nothing happens; if it was the
last thing tracked, that interval is continued.`,
	RunE: runTaskDo,
}

var taskStopCmd = &cobra.Command{
	Use:   "taskstop [task...]",
	Short: "Stop tracking time against a task",
	Long:  `Stops timewarrior tracking, but only if the active interval belongs to the task.`,
	RunE:  runTaskStop,
}

var taskNowCmd = &cobra.Command{
	Use:   "tasknow",
	Short: "Print the label path timewarrior is tracking",
	Args:  cobra.NoArgs,
	RunE:  runTaskNow,
}

func init() {
	addResolveFlags(taskDoCmd)
	addResolveFlags(taskStopCmd)
	taskNowCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Also print whether tracking is active")
}

func runTaskDo(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.OutOrStdout())
	defer a.Close()
	ctx := cmd.Context()

	task, err := a.one(ctx, args)
	if err != nil {
		return err
	}
	f, _ := fql.Of(task)
	state := task.State()
	if finished(state) {
		log.Printf("%s: task is %s", f, state)
	}

	out, err := a.engine().Do(ctx, task)
	if err != nil {
		return err
	}
	if out == timesync.OutcomeAlready {
		log.Printf("%s: already tracking", f)
	}
	debugf("taskdo %s (%s): %s", f, state, out)
	return nil
}

// finished reports whether time tracked against a task in state s would land
// on work that is already closed.
func finished(s models.TaskStatus) bool {
	return s == models.TaskStatusCompleted || s == models.TaskStatusDeleted
}

func runTaskStop(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.OutOrStdout())
	defer a.Close()
	ctx := cmd.Context()

	task, err := a.one(ctx, args)
	if err != nil {
		return err
	}
	out, err := a.engine().Stop(ctx, task)
	if err != nil {
		return err
	}
	f, _ := fql.Of(task)
	if out == timesync.OutcomeNotActive {
		log.Printf("%s: already stopped or never started", f)
	}
	debugf("taskstop %s: %s", f, out)
	return nil
}

func runTaskNow(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.ErrOrStderr())
	defer a.Close()

	cur, err := a.tracker.Now(cmd.Context())
	if err != nil {
		return err
	}
	if !flagVerbose {
		fmt.Fprintln(cmd.OutOrStdout(), cur.FQL)
		return nil
	}
	state := "stopped"
	if cur.Active {
		state = "active"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cur.FQL, state)
	return nil
}
