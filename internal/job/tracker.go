// Package job tracks batch processing jobs and runs the
// resolve, acquire, match sequence over individuals.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-scout/internal/model"
	"github.com/sells-group/profile-scout/internal/store"
)

// Tracker owns one job's lifecycle. Status only moves forward:
// queued -> running -> completed|failed|cancelled. Counter updates are
// serialized so Processed == SuccessCount + ErrorCount holds at every
// observable point.
type Tracker struct {
	store store.Store

	mu        sync.Mutex
	job       model.Job
	cancelled bool
}

// NewTracker creates the job row and returns its tracker.
func NewTracker(ctx context.Context, st store.Store, jobType model.JobType, total int) (*Tracker, error) {
	job, err := st.CreateJob(ctx, jobType, total)
	if err != nil {
		return nil, eris.Wrap(err, "job: create")
	}
	return &Tracker{store: st, job: *job}, nil
}

// Start transitions queued -> running and stamps StartedAt.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.job.Status != model.JobQueued {
		return eris.Errorf("job: cannot start from status %s", t.job.Status)
	}
	now := time.Now().UTC()
	t.job.Status = model.JobRunning
	t.job.StartedAt = &now
	return t.persistLocked(ctx)
}

// RecordSuccess counts one successfully processed individual.
func (t *Tracker) RecordSuccess(ctx context.Context) error {
	return t.record(ctx, true)
}

// RecordError counts one failed individual. Item failures never fail the
// job; they only show up in the error count.
func (t *Tracker) RecordError(ctx context.Context) error {
	return t.record(ctx, false)
}

func (t *Tracker) record(ctx context.Context, success bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.job.Status != model.JobRunning {
		return eris.Errorf("job: cannot record progress in status %s", t.job.Status)
	}
	t.job.Processed++
	if success {
		t.job.SuccessCount++
	} else {
		t.job.ErrorCount++
	}
	return t.persistLocked(ctx)
}

// Complete transitions running -> completed.
func (t *Tracker) Complete(ctx context.Context) error {
	return t.finish(ctx, model.JobCompleted, "")
}

// Fail transitions running -> failed with a job-level error message.
func (t *Tracker) Fail(ctx context.Context, message string) error {
	return t.finish(ctx, model.JobFailed, message)
}

func (t *Tracker) finish(ctx context.Context, status model.JobStatus, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.job.Status != model.JobRunning {
		return eris.Errorf("job: cannot finish from status %s", t.job.Status)
	}
	now := time.Now().UTC()
	t.job.Status = status
	t.job.ErrorMessage = message
	t.job.CompletedAt = &now
	return t.persistLocked(ctx)
}

// Cancel requests cooperative cancellation and moves the job to cancelled.
// Valid from queued or running; terminal states reject it.
func (t *Tracker) Cancel(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.job.Status.Terminal() {
		return eris.Errorf("job: cannot cancel from status %s", t.job.Status)
	}
	now := time.Now().UTC()
	t.job.Status = model.JobCancelled
	t.job.CompletedAt = &now
	t.cancelled = true
	return t.persistLocked(ctx)
}

// Cancelled reports whether cancellation was requested. Workers check this
// between individuals; in-flight work is allowed to finish.
func (t *Tracker) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Snapshot returns a copy of the job's current state.
func (t *Tracker) Snapshot() model.Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.job
}

func (t *Tracker) persistLocked(ctx context.Context) error {
	job := t.job
	return eris.Wrap(t.store.UpdateJob(ctx, &job), "job: persist")
}
