package timesync

import "errors"

var (
	// ErrUnsupported is returned for task edits the ledger cannot follow:
	// restarting an ended task, pausing a started one, or editing the start
	// or end time of a task that is already running.
	ErrUnsupported = errors.New("unsupported transition")

	// ErrNoFQL means a task needs a project and a label to be tracked.
	ErrNoFQL = errors.New("task has no fully-qualified label")

	// ErrFQLRemoved means an edit removed the project or label of a task
	// that had one, leaving its intervals without a label to follow.
	ErrFQLRemoved = errors.New("edit removes the task's fully-qualified label")
)
