package job

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/profile-scout/internal/acquire"
	"github.com/sells-group/profile-scout/internal/config"
	"github.com/sells-group/profile-scout/internal/match"
	"github.com/sells-group/profile-scout/internal/model"
	"github.com/sells-group/profile-scout/internal/search"
	"github.com/sells-group/profile-scout/internal/store"
)

// Runner drives individuals through resolve, acquire, and match, tracking
// progress on a job.
type Runner struct {
	store    store.Store
	resolver *search.Resolver
	acquirer *acquire.Acquirer
	engine   *match.Engine
	cfg      config.BatchConfig
}

// NewRunner wires the pipeline stages together.
func NewRunner(st store.Store, resolver *search.Resolver, acquirer *acquire.Acquirer, engine *match.Engine, cfg config.BatchConfig) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 10
	}
	return &Runner{
		store:    st,
		resolver: resolver,
		acquirer: acquirer,
		engine:   engine,
		cfg:      cfg,
	}
}

// Run processes the individuals under a new job and returns its final
// state. Individual failures are counted, not fatal; the job itself fails
// only on infrastructure errors such as a broken store. Context
// cancellation moves the job to cancelled after in-flight items finish.
func (r *Runner) Run(ctx context.Context, individuals []model.Individual, jobType model.JobType) (*model.Job, error) {
	// Job bookkeeping persists even when the work context is cancelled, so
	// the final state of an interrupted job is still recorded.
	bookCtx := context.WithoutCancel(ctx)

	tracker, err := NewTracker(bookCtx, r.store, jobType, len(individuals))
	if err != nil {
		return nil, err
	}
	return r.runTracked(ctx, bookCtx, tracker, individuals)
}

func (r *Runner) runTracked(ctx, bookCtx context.Context, tracker *Tracker, individuals []model.Individual) (*model.Job, error) {
	log := zap.L().With(zap.String("job_id", tracker.Snapshot().ID))

	if err := tracker.Start(bookCtx); err != nil {
		return nil, err
	}
	log.Info("job: started",
		zap.String("type", string(tracker.Snapshot().Type)),
		zap.Int("total", len(individuals)),
	)

	if ctx.Err() != nil {
		_ = tracker.Cancel(bookCtx)
		snap := tracker.Snapshot()
		return &snap, nil
	}

	keywords, err := r.store.ListKeywords(ctx, true)
	if err != nil {
		_ = tracker.Fail(bookCtx, "loading keywords failed")
		return nil, eris.Wrap(err, "job: load keywords")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for _, ind := range individuals {
		g.Go(func() error {
			if tracker.Cancelled() || gctx.Err() != nil {
				return nil
			}

			perr := r.processIndividual(gctx, ind, keywords)
			if tracker.Cancelled() {
				return nil
			}
			if perr != nil {
				log.Warn("job: individual failed",
					zap.String("individual_id", ind.ID),
					zap.String("name", ind.Name),
					zap.Error(perr),
				)
				if err := tracker.RecordError(bookCtx); err != nil {
					return err
				}
			} else if err := tracker.RecordSuccess(bookCtx); err != nil {
				return err
			}

			snap := tracker.Snapshot()
			if snap.Processed%r.cfg.ProgressEvery == 0 {
				log.Info("job: progress",
					zap.Int("processed", snap.Processed),
					zap.Int("total", snap.Total),
					zap.Int("percent", snap.ProgressPercentage()),
				)
			}
			return nil
		})
	}

	runErr := g.Wait()

	switch {
	case tracker.Cancelled():
		// Cancel already moved the job to its terminal state.
	case ctx.Err() != nil:
		_ = tracker.Cancel(bookCtx)
	case runErr != nil:
		_ = tracker.Fail(bookCtx, runErr.Error())
	default:
		if err := tracker.Complete(bookCtx); err != nil {
			return nil, err
		}
	}

	snap := tracker.Snapshot()
	log.Info("job: finished",
		zap.String("status", string(snap.Status)),
		zap.Int("processed", snap.Processed),
		zap.Int("success", snap.SuccessCount),
		zap.Int("errors", snap.ErrorCount),
	)
	return &snap, runErr
}

// processIndividual runs one individual end to end: discover a profile URL
// when missing, acquire the page, then match keywords over the extracted
// text. The acquisition record is persisted even on failure.
func (r *Runner) processIndividual(ctx context.Context, ind model.Individual, keywords []model.Keyword) error {
	profileURL := ind.ProfileURL
	if profileURL == "" {
		candidates, err := r.resolver.Resolve(ctx, ind.Name, ind.Organization)
		if err != nil {
			return eris.Wrapf(err, "job: resolve %s", ind.Name)
		}
		if len(candidates) == 0 {
			return eris.Errorf("job: no profile candidates for %s", ind.Name)
		}
		profileURL = candidates[0].URL
		if err := r.store.SetProfileURL(ctx, ind.ID, profileURL); err != nil {
			return err
		}
	}

	record, acquireErr := r.acquirer.Acquire(ctx, profileURL)
	record.IndividualID = ind.ID

	stored, err := r.store.CreateRecord(ctx, record)
	if err != nil {
		return eris.Wrapf(err, "job: persist record for %s", ind.Name)
	}
	if acquireErr != nil {
		return acquireErr
	}

	_, err = r.MatchRecord(ctx, stored, keywords)
	return err
}

// MatchRecord analyzes a stored record against the keyword set and
// atomically replaces its persisted matches.
func (r *Runner) MatchRecord(ctx context.Context, record *model.AcquisitionRecord, keywords []model.Keyword) ([]model.Match, error) {
	results := r.engine.Analyze(record, keywords)

	matches := make([]model.Match, 0, len(results))
	for _, res := range results {
		matches = append(matches, model.Match{
			RecordID:   record.ID,
			KeywordID:  res.KeywordID,
			Word:       res.Word,
			Category:   res.Category,
			Context:    res.Context,
			SourceURL:  record.SourceURL,
			Count:      res.Count,
			Confidence: res.Confidence,
		})
	}

	if err := r.store.ReplaceMatches(ctx, record.ID, matches); err != nil {
		return nil, eris.Wrapf(err, "job: replace matches for record %s", record.ID)
	}
	return matches, nil
}
