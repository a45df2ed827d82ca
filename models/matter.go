package models

import (
	"time"

	"github.com/google/uuid"
)

// MatterStatus represents where a matter is in the intake flow
type MatterStatus string

const (
	MatterStatusNew       MatterStatus = "new"
	MatterStatusExtracted MatterStatus = "extracted"
	MatterStatusVerified  MatterStatus = "verified"
	MatterStatusProcessed MatterStatus = "processed"
	MatterStatusArchived  MatterStatus = "archived"
)

// Matter represents one intake case: an uploaded police report, its
// extraction, and the artifacts generated from it.
type Matter struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Status MatterStatus `json:"status"`

	// CaseTitle decides which party is the client: in "X v Y", X is the
	// client. Set at matter creation, never recomputed from the extraction.
	CaseTitle string `json:"case_title"`

	// External practice-management matter id, when the matter mirrors one
	ClioMatterID *string `json:"clio_matter_id,omitempty"`

	// Uploaded police report and generated retainer
	ReportFileID   *uuid.UUID `json:"report_file_id,omitempty"`
	RetainerFileID *uuid.UUID `json:"retainer_file_id,omitempty"`

	// Extraction, present once the extract step has run. Mutable through
	// reviewer corrections until the matter is submitted for processing.
	Extraction *CaseExtraction `json:"extraction,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}
