package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lmercadier/turfdata/internal/domain"
)

// ProgramFetcher retrieves the day catalog from the remote source.
type ProgramFetcher interface {
	Program(ctx context.Context, date time.Time) ([]domain.CatalogRace, error)
}

// RaceFetcher retrieves per-race data from the remote source.
type RaceFetcher interface {
	FetchRunning(ctx context.Context, date time.Time, race domain.CatalogRace) (domain.RaceUpdate, error)
	FetchFinished(ctx context.Context, date time.Time, race domain.CatalogRace) (domain.RaceUpdate, error)
}

// Outcome is the result of one attempted per-race fetch: either a partial
// update or the error that prevented it. An outcome never carries another
// race's data.
type Outcome struct {
	Key    domain.RaceKey
	Update domain.RaceUpdate
	Err    error
}

// phase selects which RaceFetcher call a fan-out issues.
type phase int

const (
	phaseRunning phase = iota
	phaseFinished
)

func (p phase) String() string {
	if p == phaseFinished {
		return "finished"
	}
	return "in-progress"
}

// Fetcher fans per-race fetches out concurrently, bounded by a configurable
// limit so the remote source is never hit with unbounded parallelism.
//
// Fetching is gather-all: every race yields an Outcome, and one race's
// failure never discards the results already obtained for its siblings.
type Fetcher struct {
	races         RaceFetcher
	maxConcurrent int
	logger        *slog.Logger
}

// NewFetcher creates a Fetcher issuing at most maxConcurrent simultaneous
// per-race fetches. A non-positive limit falls back to 8.
func NewFetcher(races RaceFetcher, maxConcurrent int, logger *slog.Logger) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &Fetcher{
		races:         races,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// fetchPhase runs one fan-out over the given races and returns one outcome
// per race, in catalog order. Each goroutine writes only its own slot, so no
// locking is needed; the shared document is never touched here.
func (f *Fetcher) fetchPhase(ctx context.Context, date time.Time, races []domain.CatalogRace, ph phase) []Outcome {
	outcomes := make([]Outcome, len(races))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	for i, race := range races {
		i, race := i, race
		g.Go(func() error {
			out := Outcome{Key: race.Key()}
			if err := ctx.Err(); err != nil {
				out.Err = err
				outcomes[i] = out
				return nil
			}

			var (
				upd domain.RaceUpdate
				err error
			)
			switch ph {
			case phaseFinished:
				upd, err = f.races.FetchFinished(ctx, date, race)
			default:
				upd, err = f.races.FetchRunning(ctx, date, race)
			}

			out.Update = upd
			out.Err = err
			if err != nil {
				f.logger.Warn("race fetch failed",
					slog.String("race", string(race.Key())),
					slog.String("phase", ph.String()),
					slog.String("error", err.Error()),
				)
			}
			outcomes[i] = out
			return nil
		})
	}

	// Goroutines report failures through their outcome slot, never through
	// the group, so Wait only synchronizes.
	_ = g.Wait()

	return outcomes
}
