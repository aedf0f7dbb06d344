package resolve

import "errors"

// Lookups by integer id or full UUID must find exactly one task. Anything
// else means the task store is damaged or the user named a task that does
// not exist; neither is recoverable.
var (
	ErrIDNotFound    = errors.New("failed to find integer task")
	ErrIDNotUnique   = errors.New("integer id not unique")
	ErrUUIDNotFound  = errors.New("failed to find task by uuid")
	ErrUUIDNotUnique = errors.New("uuid lookup not unique")
)
