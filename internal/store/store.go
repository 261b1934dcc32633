// Package store persists individuals, keywords, acquisition records,
// matches, and jobs.
package store

import (
	"context"

	"github.com/sells-group/profile-scout/internal/model"
)

// IndividualFilter specifies criteria for listing individuals.
type IndividualFilter struct {
	Organization string `json:"organization,omitempty"`
	// MissingProfileURL selects only individuals still awaiting discovery.
	MissingProfileURL bool `json:"missing_profile_url,omitempty"`
	Limit             int  `json:"limit,omitempty"`
	Offset            int  `json:"offset,omitempty"`
}

// RecordFilter specifies criteria for listing acquisition records.
type RecordFilter struct {
	IndividualID string             `json:"individual_id,omitempty"`
	Status       model.RecordStatus `json:"status,omitempty"`
	Limit        int                `json:"limit,omitempty"`
}

// Store defines the persistence interface for the discovery pipeline.
type Store interface {
	// Individuals
	CreateIndividual(ctx context.Context, name, organization, profileURL string) (*model.Individual, error)
	GetIndividual(ctx context.Context, id string) (*model.Individual, error)
	ListIndividuals(ctx context.Context, filter IndividualFilter) ([]model.Individual, error)
	SetProfileURL(ctx context.Context, individualID, profileURL string) error

	// Keywords
	UpsertKeywords(ctx context.Context, keywords []model.Keyword) (int, error)
	ListKeywords(ctx context.Context, activeOnly bool) ([]model.Keyword, error)
	SetKeywordActive(ctx context.Context, keywordID string, active bool) error

	// Acquisition records
	CreateRecord(ctx context.Context, record *model.AcquisitionRecord) (*model.AcquisitionRecord, error)
	GetRecord(ctx context.Context, id string) (*model.AcquisitionRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.AcquisitionRecord, error)
	// MarkRecordPending resets a record for reprocessing; the only
	// backward status transition the schema permits.
	MarkRecordPending(ctx context.Context, id string) error

	// Matches
	// ReplaceMatches swaps a record's match set in one transaction so a
	// re-run never leaves a partial mix of old and new matches.
	ReplaceMatches(ctx context.Context, recordID string, matches []model.Match) error
	ListMatches(ctx context.Context, recordID string) ([]model.Match, error)

	// Jobs
	CreateJob(ctx context.Context, jobType model.JobType, total int) (*model.Job, error)
	UpdateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, limit int) ([]model.Job, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
