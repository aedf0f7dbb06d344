// Package timesync keeps the time-tracking ledger in step with task edits.
//
// Each task is in one of three states, derived from its start and end
// timestamps: not started, started or ended. Starting a task opens (or
// continues) a ledger interval tagged with the task's sync tags, ending it
// stops that interval, and any change to the sync tags is replayed onto
// every interval already recorded under the task's label.
package timesync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fentz26/taskwtools/internal/fql"
	"github.com/fentz26/taskwtools/internal/ledger"
	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/tracker"
)

// Outcome describes what Do or Stop did to the ledger.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeAlready: the task's label was already being tracked.
	OutcomeAlready
	// OutcomeContinued: the most recent interval had the task's label and
	// was resumed.
	OutcomeContinued
	OutcomeStarted
	OutcomeStopped
	// OutcomeNotActive: the active interval belongs to another label, or
	// nothing is being tracked.
	OutcomeNotActive
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlready:
		return "already"
	case OutcomeContinued:
		return "continued"
	case OutcomeStarted:
		return "started"
	case OutcomeStopped:
		return "stopped"
	case OutcomeNotActive:
		return "not active"
	}
	return "none"
}

// Journal records ledger mutations. audit.Recorder implements it.
type Journal interface {
	Record(action string, inputs interface{}, outcome, taskUUID, fql, details string) (*models.SyncEvent, error)
}

// Engine applies task transitions to a ledger.
type Engine struct {
	ledger  ledger.Ledger
	tracker *tracker.Tracker
	journal Journal
}

// New creates an engine. journal may be nil.
func New(l ledger.Ledger, tr *tracker.Tracker, journal Journal) *Engine {
	return &Engine{ledger: l, tracker: tr, journal: journal}
}

// Do makes the ledger track t. If t's label is already active nothing
// happens; if it is the most recent but stopped interval, that interval is
// continued; otherwise a new interval is started with t's sync tags.
func (e *Engine) Do(ctx context.Context, t *models.Task) (Outcome, error) {
	f, ok := fql.Of(t)
	if !ok {
		return OutcomeNone, fmt.Errorf("%w: %s", ErrNoFQL, describe(t))
	}

	cur, err := e.tracker.Now(ctx)
	if err != nil && !errors.Is(err, tracker.ErrNoIntervals) {
		return OutcomeNone, err
	}

	switch {
	case cur != nil && cur.FQL == f && cur.Active:
		return OutcomeAlready, nil

	case cur != nil && cur.FQL == f:
		ref := ledger.IntervalRef(1)
		if err := e.apply(t, f, "continue", []string{ref}, func() error {
			return e.ledger.Continue(ctx, 1)
		}); err != nil {
			return OutcomeNone, err
		}
		e.tracker.Set(f, true)
		return OutcomeContinued, nil
	}

	tags, _ := fql.TaskSyncTags(t)
	if err := e.apply(t, f, "start", tags, func() error {
		return e.ledger.Start(ctx, tags)
	}); err != nil {
		return OutcomeNone, err
	}
	e.tracker.Set(f, true)
	return OutcomeStarted, nil
}

// Stop closes the active interval, but only when it carries t's label.
func (e *Engine) Stop(ctx context.Context, t *models.Task) (Outcome, error) {
	f, ok := fql.Of(t)
	if !ok {
		return OutcomeNone, fmt.Errorf("%w: %s", ErrNoFQL, describe(t))
	}

	cur, err := e.tracker.Now(ctx)
	if errors.Is(err, tracker.ErrNoIntervals) {
		return OutcomeNotActive, nil
	}
	if err != nil {
		return OutcomeNone, err
	}
	if !cur.Active || cur.FQL != f {
		return OutcomeNotActive, nil
	}

	if err := e.apply(t, f, "stop", nil, func() error {
		return e.ledger.Stop(ctx)
	}); err != nil {
		return OutcomeNone, err
	}
	e.tracker.Set(f, false)
	return OutcomeStopped, nil
}

// OnModify handles one task edit. old is nil (or has no UUID) when the task
// is being created. Mutations already applied to the ledger are not rolled
// back when a later step fails.
func (e *Engine) OnModify(ctx context.Context, old, next *models.Task) error {
	if next == nil {
		return errors.New("missing new task state")
	}
	if old != nil && old.UUID == "" {
		old = nil
	}

	if err := validate(old, next); err != nil {
		return err
	}

	if old != nil {
		if err := e.reconcile(ctx, old, next); err != nil {
			return err
		}
	}

	oldStarted := old != nil && old.Start != nil
	oldEnded := old != nil && old.End != nil

	switch {
	case !oldStarted && next.Start != nil && next.End == nil:
		out, err := e.Do(ctx, next)
		if err != nil {
			return err
		}
		if out == OutcomeAlready {
			log.Printf("%s: already tracking", describe(next))
		}

	case oldStarted && !oldEnded && next.End != nil:
		out, err := e.Stop(ctx, next)
		if err != nil {
			return err
		}
		if out == OutcomeNotActive {
			log.Printf("%s: already stopped or never started", describe(next))
		}
	}
	return nil
}

// validate rejects edits to the timestamps of a task once it has started.
func validate(old, next *models.Task) error {
	if old == nil {
		return nil
	}

	switch {
	case old.End != nil && next.End == nil:
		return fmt.Errorf("%w: restarting an ended task", ErrUnsupported)
	case old.End != nil && !old.End.Equal(next.End):
		return fmt.Errorf("%w: editing the end time of an ended task", ErrUnsupported)
	case old.Start != nil && next.Start == nil && next.End == nil:
		return fmt.Errorf("%w: pausing a started task", ErrUnsupported)
	case old.Start != nil && next.Start != nil && !old.Start.Equal(next.Start):
		return fmt.Errorf("%w: editing the start time of a started task", ErrUnsupported)
	}

	if _, had := fql.Of(old); had {
		if _, has := fql.Of(next); !has {
			return fmt.Errorf("%w: %s", ErrFQLRemoved, describe(old))
		}
	}
	return nil
}

// reconcile replays sync tag changes onto every interval tagged with the
// old label.
func (e *Engine) reconcile(ctx context.Context, old, next *models.Task) error {
	oldF, ok := fql.Of(old)
	if !ok {
		return nil
	}
	oldTags, _ := fql.TaskSyncTags(old)
	newTags, _ := fql.TaskSyncTags(next)
	adds, removes := Delta(oldTags, newTags)
	if len(adds) == 0 && len(removes) == 0 {
		return nil
	}

	intervals, err := e.ledger.Export(ctx, oldF)
	if err != nil {
		return fmt.Errorf("export intervals for %s: %w", oldF, err)
	}
	if len(intervals) == 0 {
		return nil
	}
	// Interval @1 may lose the label the tracker last saw.
	defer e.tracker.Reset()

	for _, iv := range intervals {
		id := iv.ID
		ref := ledger.IntervalRef(id)
		if len(adds) > 0 {
			if err := e.apply(next, oldF, "tag", append([]string{ref}, adds...), func() error {
				return e.ledger.Tag(ctx, id, adds)
			}); err != nil {
				return err
			}
		}
		if len(removes) > 0 {
			if err := e.apply(next, oldF, "untag", append([]string{ref}, removes...), func() error {
				return e.ledger.Untag(ctx, id, removes)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delta splits the change from old to new into tags to add and tags to
// remove. Both keep the order of their source list.
func Delta(old, next []string) (adds, removes []string) {
	inOld := make(map[string]bool, len(old))
	for _, t := range old {
		inOld[t] = true
	}
	inNew := make(map[string]bool, len(next))
	for _, t := range next {
		inNew[t] = true
	}
	for _, t := range next {
		if !inOld[t] {
			adds = append(adds, t)
			inOld[t] = true
		}
	}
	for _, t := range old {
		if !inNew[t] {
			removes = append(removes, t)
			inNew[t] = true
		}
	}
	return adds, removes
}

// apply runs one ledger mutation, logs a failure where it happens and
// journals the attempt either way.
func (e *Engine) apply(t *models.Task, f, action string, args []string, fn func() error) error {
	err := fn()
	outcome := "ok"
	if err != nil {
		outcome = "failed"
		var lerr *ledger.Error
		if errors.As(err, &lerr) {
			log.Printf("timew %s failed with status %d: %s", lerr.Op, lerr.Code, strings.TrimSpace(lerr.Stderr))
		} else {
			log.Printf("timew %s failed: %v", action, err)
		}
	}

	if e.journal != nil {
		if _, jerr := e.journal.Record(action, args, outcome, t.UUID, f, strings.Join(args, " ")); jerr != nil {
			log.Printf("journal: %v", jerr)
		}
	}
	return err
}

func describe(t *models.Task) string {
	if f, ok := fql.Of(t); ok {
		return f
	}
	if t.ID != 0 {
		return fmt.Sprintf("task %d", t.ID)
	}
	if t.UUID != "" {
		return "task " + t.UUID
	}
	return fmt.Sprintf("task %q", t.Description)
}
