package model

import "time"

// JobType describes the scope of a scraping job.
type JobType string

const (
	JobSingle  JobType = "single"
	JobBatch   JobType = "batch"
	JobCompany JobType = "company"
)

// JobStatus is the job state machine: queued -> running -> one of the
// terminal states. Cancelled is only reachable from queued or running.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Job accounts for a batch of individuals processed through the
// resolve -> acquire -> match sequence. At completion
// Processed == SuccessCount + ErrorCount always holds.
type Job struct {
	ID           string     `json:"id"`
	Type         JobType    `json:"type"`
	Status       JobStatus  `json:"status"`
	Total        int        `json:"total"`
	Processed    int        `json:"processed"`
	SuccessCount int        `json:"success_count"`
	ErrorCount   int        `json:"error_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ProgressPercentage is the floor of processed/total as a percentage,
// defined as 0 for an empty job.
func (j Job) ProgressPercentage() int {
	if j.Total == 0 {
		return 0
	}
	return j.Processed * 100 / j.Total
}
