package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fentz26/taskwtools/internal/models"
)

// Memory is an in-process Ledger that follows timew's conventions: ids count
// back from 1 for the newest interval, start closes the active interval, and
// stopping with nothing active fails.
type Memory struct {
	intervals []models.Interval
	now       func() time.Time

	// Ops lists every mutation in the order applied, e.g. "tag @2 a b".
	Ops []string
	// FailOn makes the named operation fail with a *Error.
	FailOn string
}

// NewMemory returns a ledger holding intervals, oldest first.
func NewMemory(intervals ...models.Interval) *Memory {
	m := &Memory{now: time.Now}
	for _, iv := range intervals {
		iv.Tags = append([]string(nil), iv.Tags...)
		m.intervals = append(m.intervals, iv)
	}
	return m
}

// SetClock replaces the ledger's notion of the current time.
func (m *Memory) SetClock(now func() time.Time) {
	m.now = now
}

// Intervals returns every interval with ids assigned, oldest first.
func (m *Memory) Intervals() []models.Interval {
	out := make([]models.Interval, len(m.intervals))
	for i, iv := range m.intervals {
		iv.ID = len(m.intervals) - i
		iv.Tags = append([]string(nil), iv.Tags...)
		out[i] = iv
	}
	return out
}

func (m *Memory) record(op string, args ...string) error {
	if m.FailOn == op {
		return &Error{Op: op, Args: args, Code: 255, Stderr: "injected failure"}
	}
	m.Ops = append(m.Ops, strings.TrimSpace(op+" "+strings.Join(args, " ")))
	return nil
}

func (m *Memory) active() *models.Interval {
	if n := len(m.intervals); n > 0 && m.intervals[n-1].End == nil {
		return &m.intervals[n-1]
	}
	return nil
}

func (m *Memory) byID(id int) (*models.Interval, error) {
	i := len(m.intervals) - id
	if id < 1 || i < 0 {
		return nil, &Error{Op: "lookup", Code: 255, Stderr: fmt.Sprintf("ID '%s' does not correspond to any tracking.", IntervalRef(id))}
	}
	return &m.intervals[i], nil
}

// Export implements Ledger.
func (m *Memory) Export(ctx context.Context, filter ...string) ([]models.Interval, error) {
	if m.FailOn == "export" {
		return nil, &Error{Op: "export", Args: filter, Code: 255, Stderr: "injected failure"}
	}
	now := m.now()
	var since time.Time
	var tags []string
	for _, f := range filter {
		if strings.HasPrefix(f, ":") {
			s, err := RangeStart(f, now)
			if err != nil {
				return nil, err
			}
			since = s
			continue
		}
		tags = append(tags, f)
	}

	var out []models.Interval
	for _, iv := range m.Intervals() {
		if !since.IsZero() && iv.End != nil && !iv.End.After(since) {
			continue
		}
		if hasAll(&iv, tags) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func hasAll(iv *models.Interval, tags []string) bool {
	for _, t := range tags {
		if !iv.HasTag(t) {
			return false
		}
	}
	return true
}

// Start implements Ledger.
func (m *Memory) Start(ctx context.Context, tags []string) error {
	if err := m.record("start", tags...); err != nil {
		return err
	}
	m.open(tags)
	return nil
}

func (m *Memory) open(tags []string) {
	now := m.now()
	if a := m.active(); a != nil {
		a.End = models.NewTime(now)
	}
	m.intervals = append(m.intervals, models.Interval{
		Start: *models.NewTime(now),
		Tags:  append([]string(nil), tags...),
	})
}

// Stop implements Ledger.
func (m *Memory) Stop(ctx context.Context) error {
	a := m.active()
	if a == nil {
		return &Error{Op: "stop", Code: 255, Stderr: "There is no active time tracking."}
	}
	if err := m.record("stop"); err != nil {
		return err
	}
	a.End = models.NewTime(m.now())
	return nil
}

// Continue implements Ledger.
func (m *Memory) Continue(ctx context.Context, id int) error {
	iv, err := m.byID(id)
	if err != nil {
		return err
	}
	if err := m.record("continue", IntervalRef(id)); err != nil {
		return err
	}
	m.open(iv.Tags)
	return nil
}

// Tag implements Ledger.
func (m *Memory) Tag(ctx context.Context, id int, tags []string) error {
	iv, err := m.byID(id)
	if err != nil {
		return err
	}
	if err := m.record("tag", append([]string{IntervalRef(id)}, tags...)...); err != nil {
		return err
	}
	for _, t := range tags {
		if !iv.HasTag(t) {
			iv.Tags = append(iv.Tags, t)
		}
	}
	return nil
}

// Untag implements Ledger.
func (m *Memory) Untag(ctx context.Context, id int, tags []string) error {
	iv, err := m.byID(id)
	if err != nil {
		return err
	}
	if err := m.record("untag", append([]string{IntervalRef(id)}, tags...)...); err != nil {
		return err
	}
	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[t] = true
	}
	kept := iv.Tags[:0]
	for _, t := range iv.Tags {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	iv.Tags = kept
	return nil
}
