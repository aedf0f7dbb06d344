package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fentz26/taskwtools/internal/fql"
	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/resolve"
	"github.com/spf13/cobra"
)

// lookupVerb prints one field of every resolved task, one per line.
type lookupVerb struct {
	name   string
	short  string
	plural bool
	// zero verbs always answer with a sentinel UUID when resolution fails.
	zero   bool
	format func(t *models.Task) (string, error)
}

var lookupVerbs = []lookupVerb{
	{name: "taskid", short: "Print the integer id of a task", format: formatID},
	{name: "taskids", short: "Print the integer ids of matching tasks", plural: true, format: formatID},
	{name: "taskuuid", short: "Print the UUID of a task", zero: true, format: formatUUID},
	{name: "taskuuids", short: "Print the UUIDs of matching tasks", plural: true, zero: true, format: formatUUID},
	{name: "taskfql", short: "Print the fully-qualified label of a task", format: formatFQL},
	{name: "taskfqls", short: "Print the fully-qualified labels of matching tasks", plural: true, format: formatFQL},
	{name: "tasklabel", short: "Print the label of a task", format: formatLabel},
	{name: "tasklabels", short: "Print the labels of matching tasks", plural: true, format: formatLabel},
	{name: "timewtags", short: "Print the timewarrior tags for a task", format: formatSyncTags},
}

func lookupCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(lookupVerbs))
	for _, v := range lookupVerbs {
		v := v
		cmd := &cobra.Command{
			Use:   v.name + " [task...]",
			Short: v.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := newApp(cmd.ErrOrStderr())
				defer a.Close()

				opts := options(v.plural)
				opts.Zero = opts.Zero || v.zero
				res, err := a.resolve(cmd.Context(), args, opts)
				if err != nil {
					return err
				}
				return v.write(cmd.OutOrStdout(), res, args)
			},
		}
		addResolveFlags(cmd)
		if strings.HasPrefix(v.name, "taskid") {
			cmd.Flags().BoolVarP(&flagIDStrings, "idstrings", "i", false, "Print the UUID of tasks without an integer id")
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// write prints the result. A failed resolution prints the sentinel UUID
// when zero output was requested and is an error otherwise.
func (v lookupVerb) write(w io.Writer, res *resolve.Result, args []string) error {
	if res.Outcome != resolve.Found {
		if !v.zero && !flagZero {
			return resultError(res, args)
		}
		for _, u := range res.UUIDs() {
			fmt.Fprintln(w, u)
		}
		return nil
	}

	for i := range res.Tasks {
		s, err := v.format(&res.Tasks[i])
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	}
	return nil
}

func formatID(t *models.Task) (string, error) {
	if t.ID == 0 && flagIDStrings {
		return t.UUID, nil
	}
	return strconv.Itoa(t.ID), nil
}

func formatUUID(t *models.Task) (string, error) {
	return t.UUID, nil
}

func formatFQL(t *models.Task) (string, error) {
	f, ok := fql.Of(t)
	if !ok {
		return "", fmt.Errorf("task %s has no project and label", t.UUID)
	}
	return f, nil
}

func formatLabel(t *models.Task) (string, error) {
	if t.Label == "" {
		return "", fmt.Errorf("task %s has no label", t.UUID)
	}
	return t.Label, nil
}

func formatSyncTags(t *models.Task) (string, error) {
	tags, ok := fql.TaskSyncTags(t)
	if !ok {
		return "", fmt.Errorf("task %s has no project and label", t.UUID)
	}
	return strings.Join(tags, " "), nil
}

var taskGetCmd = &cobra.Command{
	Use:   "taskget [task...]",
	Short: "Print matching tasks as JSON",
	RunE:  runTaskGet,
}

func init() {
	addResolveFlags(taskGetCmd)
}

func runTaskGet(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.ErrOrStderr())
	defer a.Close()

	res, err := a.resolve(cmd.Context(), args, options(false))
	if err != nil {
		return err
	}
	return writeTasksJSON(cmd.OutOrStdout(), res, args)
}

func writeTasksJSON(w io.Writer, res *resolve.Result, args []string) error {
	if res.Outcome != resolve.Found && !flagZero {
		return resultError(res, args)
	}
	tasks := res.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
