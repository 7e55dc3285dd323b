// Package jobs runs background work through Asynq: the nightly ledger
// integrity scan and expired session cleanup.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrityScan recomputes stock balances from movements.
	TaskLedgerIntegrityScan = "ledger:integrity_scan"
	// TaskSessionCleanup removes expired session rows.
	TaskSessionCleanup = "session:cleanup"
)

// LedgerScanPayload configures an integrity scan run.
type LedgerScanPayload struct {
	// MaxReported caps how many drifting balances a single run logs.
	MaxReported int `json:"max_reported"`
}

// NewLedgerScanTask constructs an integrity scan task.
func NewLedgerScanTask(payload LedgerScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrityScan, data), nil
}

// NewSessionCleanupTask constructs a session cleanup task.
func NewSessionCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskSessionCleanup, nil)
}
