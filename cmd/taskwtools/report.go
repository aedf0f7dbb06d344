package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fentz26/taskwtools/internal/fql"
	"github.com/fentz26/taskwtools/internal/ledger"
	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/render"
	"github.com/spf13/cobra"
)

const unlabeled = "(no label)"

var reportRanges = []struct {
	name, hint, title string
}{
	{"taskday", ":day", "today"},
	{"taskweek", ":week", "this week"},
	{"taskmonth", ":month", "this month"},
	{"taskyear", ":year", "this year"},
}

func reportCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(reportRanges))
	for _, r := range reportRanges {
		r := r
		cmd := &cobra.Command{
			Use:   r.name + " [task...]",
			Short: fmt.Sprintf("Sum tracked time %s per task", r.title),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := newApp(cmd.ErrOrStderr())
				defer a.Close()

				rows, err := a.report(cmd.Context(), r.hint, args, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), render.Report(r.title, rows))
				return nil
			},
		}
		addResolveFlags(cmd)
		cmds = append(cmds, cmd)
	}
	return cmds
}

// report sums tracked time since the start of the range. Without task
// arguments every interval in the range is grouped by its label; otherwise
// one row is produced per resolved task.
func (a *app) report(ctx context.Context, hint string, args []string, now time.Time) ([]render.Row, error) {
	since, err := ledger.RangeStart(hint, now)
	if err != nil {
		return nil, err
	}

	req := request(args)
	if len(req.Tokens) == 0 && len(req.Include) == 0 && len(req.Exclude) == 0 {
		intervals, err := a.ledger.Export(ctx, hint)
		if err != nil {
			return nil, err
		}
		return groupByLabel(intervals, since, now), nil
	}

	res, err := a.resolve(ctx, args, options(true))
	if err != nil {
		return nil, err
	}
	var rows []render.Row
	tasks := res.Real()
	for i := range tasks {
		t := &tasks[i]
		f, ok := fql.Of(t)
		if !ok {
			return nil, fmt.Errorf("task %s has no project and label", t.UUID)
		}
		intervals, err := a.ledger.Export(ctx, hint, f)
		if err != nil {
			return nil, err
		}
		row := render.Row{Label: f}
		for j := range intervals {
			row.Duration += clipped(&intervals[j], since, now)
			row.Active = row.Active || intervals[j].Active()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func groupByLabel(intervals []models.Interval, since, now time.Time) []render.Row {
	var rows []render.Row
	index := make(map[string]int)
	for i := range intervals {
		iv := &intervals[i]
		label := unlabeled
		if found := fql.Find(iv.Tags); len(found) == 1 {
			label = found[0]
		}
		n, ok := index[label]
		if !ok {
			n = len(rows)
			index[label] = n
			rows = append(rows, render.Row{Label: label})
		}
		rows[n].Duration += clipped(iv, since, now)
		rows[n].Active = rows[n].Active || iv.Active()
	}
	return rows
}

// clipped is the part of iv's duration that falls after since.
func clipped(iv *models.Interval, since, now time.Time) time.Duration {
	c := *iv
	if c.Start.Before(since) {
		c.Start = models.Time{Time: since}
	}
	return c.Duration(now)
}
