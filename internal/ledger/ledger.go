// Package ledger drives the time-tracking ledger (timewarrior).
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fentz26/taskwtools/internal/models"
)

// Ledger is the time-tracking store.
type Ledger interface {
	// Export returns intervals matching filter (ranges such as ":day" and
	// tags), oldest first. Interval ids count back from 1 for the newest.
	Export(ctx context.Context, filter ...string) ([]models.Interval, error)
	// Start opens a new interval with tags, closing any active one.
	Start(ctx context.Context, tags []string) error
	// Stop closes the active interval.
	Stop(ctx context.Context) error
	// Continue opens a new interval with the tags of interval id.
	Continue(ctx context.Context, id int) error
	// Tag adds tags to interval id.
	Tag(ctx context.Context, id int, tags []string) error
	// Untag removes tags from interval id.
	Untag(ctx context.Context, id int, tags []string) error
}

// Error is a failed ledger operation.
type Error struct {
	Op     string
	Args   []string
	Code   int
	Stderr string
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no diagnostic"
	}
	return fmt.Sprintf("timew %s: exit %d: %s", e.Op, e.Code, msg)
}

// Newest returns the interval with id 1, or nil.
func Newest(intervals []models.Interval) *models.Interval {
	for i := range intervals {
		if intervals[i].ID == 1 {
			return &intervals[i]
		}
	}
	return nil
}

// IntervalRef renders an interval id the way timew expects it.
func IntervalRef(id int) string {
	return fmt.Sprintf("@%d", id)
}

// RangeStart returns the beginning of the period named by a range hint
// (":day", ":week", ":month" or ":year") containing now. Weeks start on
// Monday.
func RangeStart(hint string, now time.Time) (time.Time, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch hint {
	case ":day":
		return day, nil
	case ":week":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset), nil
	case ":month":
		return day.AddDate(0, 0, 1-day.Day()), nil
	case ":year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	}
	return time.Time{}, &Error{Op: "export", Args: []string{hint}, Code: 255, Stderr: "unrecognized range " + hint}
}
