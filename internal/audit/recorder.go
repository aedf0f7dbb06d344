// Package audit records ledger mutations in the sync journal.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/taskwtools/internal/models"
	"github.com/fentz26/taskwtools/internal/store"
)

// Recorder writes journal rows for state-mutating ledger actions.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a recorder backed by s.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record writes a journal row. inputs are hashed, not stored, so identical
// invocations can be recognized without keeping their arguments.
func (r *Recorder) Record(action string, inputs interface{}, outcome, taskUUID, fql, details string) (*models.SyncEvent, error) {
	return r.store.WriteEvent(action, hashInputs(inputs), outcome, taskUUID, fql, details)
}

// hashInputs creates a SHA256 hash of the inputs.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
