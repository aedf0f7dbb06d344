package resolve

import (
	"github.com/google/uuid"

	"github.com/fentz26/taskwtools/internal/models"
)

// Sentinel UUIDs stand in for a task where a caller needs a syntactically
// valid UUID even though resolution failed. Both carry the RFC 4122
// "reserved for future definition" variant bits (111x), which no generated
// UUID of any version uses.
var (
	NoMatchUUID   = uuid.MustParse("00000000-0000-0000-e000-000000000000")
	AmbiguousUUID = uuid.MustParse("00000000-0000-0000-e000-000000000001")
)

// IsSentinel reports whether s is one of the reserved UUIDs.
func IsSentinel(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && (u == NoMatchUUID || u == AmbiguousUUID)
}

// Outcome classifies a resolution.
type Outcome int

const (
	Found Outcome = iota
	NotFound
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Ambiguous:
		return "ambiguous"
	}
	return "unknown"
}

// Result is the outcome of a resolution together with the matched tasks.
// When the Zero option was given, a NotFound or Ambiguous result carries a
// single pseudo-task whose UUID is the matching sentinel.
type Result struct {
	Outcome Outcome
	Tasks   []models.Task
}

// Real returns the matched tasks, omitting sentinel pseudo-tasks.
func (r *Result) Real() []models.Task {
	if r.Outcome != Found {
		return nil
	}
	return r.Tasks
}

// UUIDs renders the result for text output: one UUID per matched task, or
// the sentinel for a failed resolution.
func (r *Result) UUIDs() []string {
	switch r.Outcome {
	case NotFound:
		return []string{NoMatchUUID.String()}
	case Ambiguous:
		return []string{AmbiguousUUID.String()}
	}
	out := make([]string, len(r.Tasks))
	for i := range r.Tasks {
		out[i] = r.Tasks[i].UUID
	}
	return out
}

func sentinelTask(id uuid.UUID) models.Task {
	return models.Task{UUID: id.String(), Description: "(no task)"}
}
