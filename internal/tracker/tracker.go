// Package tracker reports what the ledger says is being worked on now.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fentz26/taskwtools/internal/fql"
	"github.com/fentz26/taskwtools/internal/ledger"
	"github.com/fentz26/taskwtools/internal/models"
)

var (
	// ErrNoIntervals means the ledger has never tracked anything.
	ErrNoIntervals = errors.New("ledger has no intervals")
	// ErrFQLTagCount means the newest interval does not carry exactly one
	// fully-qualified label tag.
	ErrFQLTagCount = errors.New("current interval must have exactly one FQL-shaped tag")
)

// Current describes the ledger's newest interval.
type Current struct {
	FQL      string
	Active   bool
	Interval models.Interval
}

// Tracker computes Current once and then serves it from memory. A Tracker
// belongs to a single command invocation.
type Tracker struct {
	ledger ledger.Ledger
	cached *Current
}

// New returns a tracker reading from l.
func New(l ledger.Ledger) *Tracker {
	return &Tracker{ledger: l}
}

// Now returns the newest interval's label and whether it is still running.
func (t *Tracker) Now(ctx context.Context) (*Current, error) {
	if t.cached != nil {
		c := *t.cached
		return &c, nil
	}

	intervals, err := t.ledger.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	newest := ledger.Newest(intervals)
	if newest == nil {
		return nil, ErrNoIntervals
	}
	labels := fql.Find(newest.Tags)
	if len(labels) != 1 {
		return nil, fmt.Errorf("%w: interval @1 has %d (%v)", ErrFQLTagCount, len(labels), newest.Tags)
	}

	t.cached = &Current{FQL: labels[0], Active: newest.Active(), Interval: *newest}
	c := *t.cached
	return &c, nil
}

// Set records a state change made by this process so later calls to Now see
// it without re-reading the ledger.
func (t *Tracker) Set(f string, active bool) {
	c := Current{FQL: f, Active: active}
	if t.cached != nil {
		c.Interval = t.cached.Interval
	}
	t.cached = &c
}

// Reset drops the cached state.
func (t *Tracker) Reset() {
	t.cached = nil
}
