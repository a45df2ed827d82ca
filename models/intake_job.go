package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IntakeJobStatus represents the status of an intake pipeline run
type IntakeJobStatus string

const (
	JobStatusPending    IntakeJobStatus = "pending"
	JobStatusInProgress IntakeJobStatus = "in_progress"
	JobStatusCompleted  IntakeJobStatus = "completed"
	JobStatusFailed     IntakeJobStatus = "failed"
)

// IntakeStep represents one step of the intake pipeline
type IntakeStep struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pending", "in_progress", "completed", "error"
	Detail string `json:"detail,omitempty"`
}

// IntakeSteps represents the ordered step list of a pipeline run
type IntakeSteps []IntakeStep

// Value implements driver.Valuer for JSONB
func (s IntakeSteps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *IntakeSteps) Scan(value interface{}) error {
	if value == nil {
		*s = make(IntakeSteps, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = make(IntakeSteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*s = make(IntakeSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// IntakeJob represents one run of the downstream pipeline for a matter:
// practice-management field updates, stage changes, SOL calendaring,
// audit note. Steps are best-effort; a failed step is recorded and the
// pipeline continues.
type IntakeJob struct {
	ID           uuid.UUID       `json:"id"`
	MatterID     uuid.UUID       `json:"matter_id"`
	Status       IntakeJobStatus `json:"status"`
	CurrentStep  *string         `json:"current_step,omitempty"`
	Steps        IntakeSteps     `json:"steps"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
