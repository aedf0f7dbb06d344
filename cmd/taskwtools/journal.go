package main

import (
	"fmt"

	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/render"
	"github.com/spf13/cobra"
)

var (
	journalLimit int
	journalTask  string
)

var taskJournalCmd = &cobra.Command{
	Use:   "taskjournal",
	Short: "List recorded timewarrior changes",
	Args:  cobra.NoArgs,
	RunE:  runTaskJournal,
}

func init() {
	taskJournalCmd.Flags().IntVar(&journalLimit, "limit", 20, "Number of events to show (0 for all)")
	taskJournalCmd.Flags().StringVar(&journalTask, "task", "", "Only show events for this task")
}

func runTaskJournal(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.ErrOrStderr())
	defer a.Close()

	s, err := a.openJournal()
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("journal is disabled")
	}

	var events []models.SyncEvent
	if journalTask == "" {
		events, err = s.ListEvents(journalLimit)
	} else {
		task, rerr := a.one(cmd.Context(), []string{journalTask})
		if rerr != nil {
			return rerr
		}
		events, err = s.EventsForTask(task.UUID)
		if journalLimit > 0 && len(events) > journalLimit {
			events = events[:journalLimit]
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), render.Journal(events))
	return nil
}
