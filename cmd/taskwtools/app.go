package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fentz26/taskwtools/internal/audit"
	"github.com/fentz26/taskwtools/internal/connectors/localexec"
	"github.com/fentz26/taskwtools/internal/ledger"
	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/resolve"
	"github.com/fentz26/taskwtools/internal/store"
	"github.com/fentz26/taskwtools/internal/taskstore"
	"github.com/fentz26/taskwtools/internal/timesync"
	"github.com/fentz26/taskwtools/internal/tracker"
)

// app holds the collaborators for one command invocation.
type app struct {
	tasks    taskstore.Store
	ledger   ledger.Ledger
	tracker  *tracker.Tracker
	resolver *resolve.Resolver
	journal  *store.Store
}

// newApp wires the task store and ledger from configuration. Output of
// mutating timew commands goes to ledgerOut.
func newApp(ledgerOut io.Writer) *app {
	workDir, _ := os.Getwd()
	conn := localexec.New(workDir, cfg.TaskCommand, cfg.TimewCommand)

	tasks := taskstore.NewTaskwarrior(conn, cfg.TaskCommand, cfg.TaskRC)
	l := ledger.NewTimew(conn, cfg.TimewCommand, ledgerOut)
	return newAppWith(tasks, l)
}

func newAppWith(tasks taskstore.Store, l ledger.Ledger) *app {
	tr := tracker.New(l)
	return &app{
		tasks:    tasks,
		ledger:   l,
		tracker:  tr,
		resolver: resolve.New(tasks, tr),
	}
}

// Close releases the journal, if it was opened.
func (a *app) Close() {
	if a.journal != nil {
		a.journal.Close()
	}
}

// openJournal opens the sync journal. It returns nil when the journal is
// disabled.
func (a *app) openJournal() (*store.Store, error) {
	if a.journal != nil || cfg == nil || !cfg.Journal.Enabled {
		return a.journal, nil
	}
	path, err := cfg.JournalPath()
	if err != nil {
		return nil, err
	}
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	a.journal = s
	return s, nil
}

// engine returns a sync engine. A journal that cannot be opened is logged
// and skipped; it never blocks a ledger update.
func (a *app) engine() *timesync.Engine {
	var j timesync.Journal
	s, err := a.openJournal()
	switch {
	case err != nil:
		log.Printf("journal unavailable: %v", err)
	case s != nil:
		j = audit.NewRecorder(s)
	}
	return timesync.New(a.ledger, a.tracker, j)
}

// resolve runs a lookup for args with options taken from flags.
func (a *app) resolve(ctx context.Context, args []string, opts resolve.Options) (*resolve.Result, error) {
	req := request(args)
	debugf("resolve %q +%v -%v %+v", req.Tokens, req.Include, req.Exclude, opts)
	return a.resolver.Resolve(ctx, req, opts)
}

// one resolves args to a single task, failing when nothing matches.
func (a *app) one(ctx context.Context, args []string) (*models.Task, error) {
	opts := options(false)
	opts.Multi = false
	opts.Zero = false
	res, err := a.resolve(ctx, args, opts)
	if err != nil {
		return nil, err
	}
	if err := resultError(res, args); err != nil {
		return nil, err
	}
	return &res.Tasks[0], nil
}

// resultError describes a failed resolution, or returns nil when tasks
// were found.
func resultError(res *resolve.Result, args []string) error {
	what := "the current task"
	if len(args) > 0 {
		what = strings.Join(args, " ")
	}
	switch res.Outcome {
	case resolve.NotFound:
		return fmt.Errorf("no task matches %q", what)
	case resolve.Ambiguous:
		return fmt.Errorf("%q matches more than one task", what)
	}
	return nil
}
