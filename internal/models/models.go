// Package models defines the core domain types for taskwtools.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the timestamp format used by both taskwarrior and timewarrior
// in their JSON import/export representations.
const TimeLayout = "20060102T150405Z"

// Time is a timestamp that encodes in the taskwarrior/timewarrior wire format.
type Time struct {
	time.Time
}

// NewTime wraps t, truncated to whole seconds as the wire format requires.
func NewTime(t time.Time) *Time {
	return &Time{Time: t.UTC().Truncate(time.Second)}
}

// MarshalJSON encodes the time as "20060102T150405Z".
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(TimeLayout))
}

// UnmarshalJSON accepts the wire format and, as a courtesy, RFC3339.
func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode time: %w", err)
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse time %q: %w", s, err)
		}
	}
	t.Time = parsed.UTC()
	return nil
}

// Equal reports whether two optional timestamps denote the same instant.
func (t *Time) Equal(o *Time) bool {
	if t == nil || o == nil {
		return t == nil && o == nil
	}
	return t.Time.Equal(o.Time)
}

// StringList decodes either a JSON array of strings or a single
// comma-separated string. Older taskwarrior releases export "depends" in the
// latter form.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	*l = nil
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// TaskStatus represents the status of a task in the task store.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusDeleted   TaskStatus = "deleted"
	TaskStatusWaiting   TaskStatus = "waiting"
	TaskStatusRecurring TaskStatus = "recurring"

	// TaskStatusStarted is never stored. It is reported by Task.State for
	// pending tasks that carry a start time.
	TaskStatusStarted TaskStatus = "started"
)

// Annotation is a timestamped note attached to a task.
type Annotation struct {
	Entry       *Time  `json:"entry,omitempty"`
	Description string `json:"description"`
}

// Task is a record from the task store. Optional string fields are empty when
// absent; optional timestamps are nil.
type Task struct {
	ID          int          `json:"id"`
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Project     string       `json:"project,omitempty"`
	Label       string       `json:"label,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Status      TaskStatus   `json:"status"`
	Entry       *Time        `json:"entry,omitempty"`
	Modified    *Time        `json:"modified,omitempty"`
	Start       *Time        `json:"start,omitempty"`
	End         *Time        `json:"end,omitempty"`
	Wait        *Time        `json:"wait,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Depends     StringList   `json:"depends,omitempty"`
}

// State returns the task status, substituting TaskStatusStarted for pending
// tasks that have been started.
func (t *Task) State() TaskStatus {
	if t.Status == TaskStatusPending && t.Start != nil {
		return TaskStatusStarted
	}
	return t.Status
}

// HasTag reports whether the task carries tag.
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() Task {
	c := *t
	c.Tags = append([]string(nil), t.Tags...)
	c.Depends = append(StringList(nil), t.Depends...)
	c.Annotations = append([]Annotation(nil), t.Annotations...)
	for i, a := range c.Annotations {
		if a.Entry != nil {
			e := *a.Entry
			c.Annotations[i].Entry = &e
		}
	}
	for _, p := range []**Time{&c.Entry, &c.Modified, &c.Start, &c.End, &c.Wait} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return c
}

// Interval is a record from the time-tracking ledger. ID 1 is the active or
// most recent interval.
type Interval struct {
	ID         int      `json:"id"`
	Start      Time     `json:"start"`
	End        *Time    `json:"end,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Annotation string   `json:"annotation,omitempty"`
}

// Active reports whether the interval is still open.
func (iv *Interval) Active() bool {
	return iv.End == nil
}

// Duration returns the length of the interval, measuring open intervals up
// to now.
func (iv *Interval) Duration(now time.Time) time.Duration {
	end := now
	if iv.End != nil {
		end = iv.End.Time
	}
	if end.Before(iv.Start.Time) {
		return 0
	}
	return end.Sub(iv.Start.Time)
}

// HasTag reports whether the interval carries tag.
func (iv *Interval) HasTag(tag string) bool {
	for _, tg := range iv.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// SyncEvent records one ledger mutation performed while synchronizing the
// ledger with the task store.
type SyncEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	TaskUUID   string    `json:"task_uuid,omitempty"`
	FQL        string    `json:"fql,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
