package models

import "time"

// JobOutbox rows are written by nobody right now. The table exists so a
// queue consumer can be added later without a schema change.
type JobOutbox struct {
	ID          int64      `db:"id" json:"id"`
	JobType     string     `db:"job_type" json:"job_type"`
	Payload     []byte     `db:"payload" json:"payload"`
	Status      string     `db:"status" json:"status"`
	Attempts    int        `db:"attempts" json:"attempts"`
	LastError   *string    `db:"last_error" json:"last_error"`
	ScheduledAt time.Time  `db:"scheduled_at" json:"scheduled_at"`
	StartedAt   *time.Time `db:"started_at" json:"started_at"`
	FinishedAt  *time.Time `db:"finished_at" json:"finished_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusSucceeded  = "succeeded"
	JobStatusFailed     = "failed"
	JobStatusDead       = "dead"
)
