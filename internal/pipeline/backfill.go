package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Backfill walks a date range and runs the day pipeline once per date. Each
// date's failure is isolated: it is logged and the walk continues. Re-running
// the driver later naturally retries only the non-terminal races, because
// complete days short-circuit.
type Backfill struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewBackfill creates a Backfill over the given pipeline.
func NewBackfill(pipeline *Pipeline, logger *slog.Logger) *Backfill {
	return &Backfill{
		pipeline: pipeline,
		logger:   logger.With(slog.String("component", "backfill")),
	}
}

// Run iterates from start to end inclusive, one day at a time. The only
// error it returns is the context's, when the walk is cancelled mid-range.
func (b *Backfill) Run(ctx context.Context, start, end time.Time) error {
	b.logger.Info("backfill starting",
		slog.String("start", start.Format("2006-01-02")),
		slog.String("end", end.Format("2006-01-02")),
	)

	days, failed := 0, 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			b.logger.Info("backfill cancelled", slog.String("date", date.Format("2006-01-02")))
			return err
		}

		summary, err := b.pipeline.RunDay(ctx, date)
		days++
		if err != nil {
			failed++
			b.logger.Error("day failed",
				slog.String("date", date.Format("2006-01-02")),
				slog.String("error", err.Error()),
			)
			continue
		}

		b.logger.Info("day done",
			slog.String("date", date.Format("2006-01-02")),
			slog.String("status", string(summary.Status())),
			slog.Int("races", summary.RacesTotal),
			slog.Int("race_errors", len(summary.RaceErrors)),
		)
	}

	b.logger.Info("backfill finished",
		slog.Int("days", days),
		slog.Int("failed", failed),
	)
	return nil
}
