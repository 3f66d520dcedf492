package destination

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// RunStatus is the lifecycle state of an execution run.
type RunStatus string

const (
	RunStarted   RunStatus = "STARTED"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// ExecutionRun is the auditable record of one sync pass against a
// destination. A run that pushed anything at all completes even when
// individual parts failed; the failure count tells the story. Only
// rejected credentials or an error before any part is attempted fail
// the whole run.
type ExecutionRun struct {
	shared.BaseEntity
	DestinationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status        RunStatus `gorm:"not null"`
	Message       string
	ErrorMessage  string
	Processed     int `gorm:"not null;default:0"`
	Created       int `gorm:"not null;default:0"`
	Updated       int `gorm:"not null;default:0"`
	Failed        int `gorm:"not null;default:0"`
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// TableName returns the table name for GORM
func (ExecutionRun) TableName() string {
	return "execution_runs"
}

// NewExecutionRun starts a run for a destination.
func NewExecutionRun(destinationID uuid.UUID) *ExecutionRun {
	return &ExecutionRun{
		BaseEntity:    shared.NewBaseEntity(),
		DestinationID: destinationID,
		Status:        RunStarted,
		StartedAt:     time.Now(),
	}
}

// Complete finishes the run with final counters.
func (r *ExecutionRun) Complete(message string) error {
	if r.Status != RunStarted {
		return shared.ErrInvalidState
	}
	now := time.Now()
	r.Status = RunCompleted
	r.Message = message
	r.FinishedAt = &now
	return nil
}

// Fail aborts the run before useful work was done. The cause lands in
// ErrorMessage; Message stays reserved for completion summaries.
func (r *ExecutionRun) Fail(message string) error {
	if r.Status != RunStarted {
		return shared.ErrInvalidState
	}
	now := time.Now()
	r.Status = RunFailed
	r.ErrorMessage = message
	r.FinishedAt = &now
	return nil
}
