package model

import (
	"time"

	"github.com/google/uuid"
)

// ExportStatus enumerates the lifecycle states of an export job.
type ExportStatus string

const (
	ExportStatusQueued  ExportStatus = "QUEUED"
	ExportStatusRunning ExportStatus = "RUNNING"
	ExportStatusDone    ExportStatus = "DONE"
	ExportStatusFailed  ExportStatus = "FAILED"
)

// ExportJob is an asynchronous submission-export job. The full job record
// travels on the queue and is mirrored to the job status key for polling.
type ExportJob struct {
	ID          uuid.UUID    `json:"id"`
	TestID      uuid.UUID    `json:"test_id"`
	RequestedBy int          `json:"requested_by"`
	Status      ExportStatus `json:"status"`
	URL         string       `json:"url,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
