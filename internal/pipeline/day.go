// Package pipeline implements the incremental acquisition-and-merge engine:
// per-day catalog fetch, classification of races into fetch phases, bounded
// concurrent per-race fetches, snapshot merging, and durable persistence,
// plus the backfill driver that walks a date range.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lmercadier/turfdata/internal/daystore"
	"github.com/lmercadier/turfdata/internal/domain"
)

// dayLockTTL bounds how long a crashed run can keep a day locked.
const dayLockTTL = 15 * time.Minute

// RunSummary describes what a single day run did.
type RunSummary struct {
	Date            time.Time
	RacesTotal      int
	InProgress      int
	Finished        int
	UnknownBetTypes []string

	// RaceErrors holds the per-race failures of this run. The races behind
	// them were skipped; every other race's data was merged and persisted.
	RaceErrors []error

	// Skipped is true when the stored document was already complete and no
	// remote call was made.
	Skipped bool
}

// Status reduces the summary to a run status for bookkeeping.
func (s RunSummary) Status() domain.RunStatus {
	switch {
	case s.Skipped:
		return domain.RunStatusSkipped
	case len(s.RaceErrors) > 0:
		return domain.RunStatusPartial
	default:
		return domain.RunStatusCompleted
	}
}

// Pipeline runs the load → classify → fetch → merge → persist cycle for one
// calendar date. The lock manager and run store are optional; a nil value
// disables day locking or run bookkeeping respectively.
type Pipeline struct {
	program ProgramFetcher
	fetcher *Fetcher
	store   *daystore.Store
	locks   domain.LockManager
	runs    domain.RunStore
	logger  *slog.Logger
}

// New creates a Pipeline.
func New(
	program ProgramFetcher,
	fetcher *Fetcher,
	store *daystore.Store,
	locks domain.LockManager,
	runs domain.RunStore,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		program: program,
		fetcher: fetcher,
		store:   store,
		locks:   locks,
		runs:    runs,
		logger:  logger.With(slog.String("component", "pipeline")),
	}
}

// RunDay executes one acquisition cycle for the given date.
//
// A fatal error (catalog unavailable, lock held, persistence failure) leaves
// the on-disk document exactly as it was and is returned to the caller.
// Per-race failures are not fatal: the other races' updates are merged and
// persisted, and the failures are reported in the summary.
func (p *Pipeline) RunDay(ctx context.Context, date time.Time) (RunSummary, error) {
	summary := RunSummary{Date: date}

	if p.locks != nil {
		unlock, err := p.locks.Acquire(ctx, "day:"+date.Format("2006-01-02"), dayLockTTL)
		if err != nil {
			return summary, fmt.Errorf("pipeline: lock day %s: %w", date.Format("2006-01-02"), err)
		}
		defer unlock()
	}

	catalog, err := p.program.Program(ctx, date)
	if err != nil {
		p.recordRun(ctx, summary, domain.RunStatusFailed, err)
		return summary, fmt.Errorf("pipeline: day catalog: %w", err)
	}
	summary.RacesTotal = len(catalog)

	doc, err := p.store.LoadOrInit(date, catalog)
	if err != nil {
		p.recordRun(ctx, summary, domain.RunStatusFailed, err)
		return summary, fmt.Errorf("pipeline: load day document: %w", err)
	}

	// A complete day short-circuits the entire remote fetch path.
	if doc.Complete() {
		summary.Skipped = true
		p.logger.Info("day already complete",
			slog.String("date", date.Format("2006-01-02")),
			slog.Int("races", len(doc)),
		)
		p.recordRun(ctx, summary, domain.RunStatusSkipped, nil)
		return summary, nil
	}

	cls := Classify(catalog, doc)
	summary.InProgress = len(cls.InProgress)
	summary.Finished = len(cls.Finished)

	running := p.fetcher.fetchPhase(ctx, date, cls.InProgress, phaseRunning)
	finished := p.fetcher.fetchPhase(ctx, date, cls.Finished, phaseFinished)

	for _, out := range append(running, finished...) {
		if out.Err != nil {
			summary.RaceErrors = append(summary.RaceErrors, fmt.Errorf("%s: %w", out.Key, out.Err))
			continue
		}
		p.applyOutcome(doc, catalog, out)
		summary.UnknownBetTypes = append(summary.UnknownBetTypes, out.Update.UnknownBetTypes...)
	}

	if len(summary.UnknownBetTypes) > 0 {
		p.logger.Warn("unrecognized bet-type codes dropped from final payouts",
			slog.String("date", date.Format("2006-01-02")),
			slog.Any("codes", summary.UnknownBetTypes),
		)
	}

	if err := p.store.Persist(date, doc); err != nil {
		p.recordRun(ctx, summary, domain.RunStatusFailed, err)
		return summary, fmt.Errorf("pipeline: persist day document: %w", err)
	}

	p.logger.Info("day run persisted",
		slog.String("date", date.Format("2006-01-02")),
		slog.Int("races", summary.RacesTotal),
		slog.Int("in_progress", summary.InProgress),
		slog.Int("finished", summary.Finished),
		slog.Int("race_errors", len(summary.RaceErrors)),
	)

	p.recordRun(ctx, summary, summary.Status(), errors.Join(summary.RaceErrors...))
	return summary, nil
}

// applyOutcome merges one successful fetch outcome into the document. A race
// that appeared in the catalog after the document was initialized gets its
// skeleton created on the fly.
func (p *Pipeline) applyOutcome(doc domain.DayDocument, catalog []domain.CatalogRace, out Outcome) {
	rec, ok := doc[out.Key]
	if !ok {
		for _, race := range catalog {
			if race.Key() == out.Key {
				skeleton := race.Skeleton
				rec = &skeleton
				doc[out.Key] = rec
				break
			}
		}
		if rec == nil {
			return
		}
	}
	Merge(rec, out.Update)
}

// recordRun writes the bookkeeping entry for this run. Bookkeeping is best
// effort: a failure is logged and never fails the run itself.
func (p *Pipeline) recordRun(ctx context.Context, summary RunSummary, status domain.RunStatus, runErr error) {
	if p.runs == nil {
		return
	}

	detail := map[string]any{
		"in_progress": summary.InProgress,
		"finished":    summary.Finished,
	}
	if len(summary.UnknownBetTypes) > 0 {
		detail["unknown_bet_types"] = summary.UnknownBetTypes
	}
	if runErr != nil {
		detail["error"] = runErr.Error()
	}

	rec := domain.RunRecord{
		ID:              uuid.New().String(),
		Date:            summary.Date,
		Status:          status,
		RacesTotal:      summary.RacesTotal,
		RacesInProgress: summary.InProgress,
		RacesFinished:   summary.Finished,
		FetchErrors:     len(summary.RaceErrors),
		UnknownBetTypes: len(summary.UnknownBetTypes),
		Detail:          detail,
		CreatedAt:       time.Now().UTC(),
	}
	if err := p.runs.Record(ctx, rec); err != nil {
		p.logger.Warn("run bookkeeping failed",
			slog.String("date", summary.Date.Format("2006-01-02")),
			slog.String("error", err.Error()),
		)
	}
}
