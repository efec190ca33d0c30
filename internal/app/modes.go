package app

import (
	"context"
	"fmt"
	"log/slog"
)

// DayMode runs one acquisition cycle for the target date and exits.
func (a *App) DayMode(ctx context.Context, deps *Dependencies) error {
	date := a.targetDate()
	a.logger.InfoContext(ctx, "starting day mode",
		slog.String("date", date.Format("2006-01-02")),
	)

	summary, err := deps.Pipeline.RunDay(ctx, date)
	if err != nil {
		return fmt.Errorf("app: day run: %w", err)
	}

	a.logger.InfoContext(ctx, "day run finished",
		slog.String("date", date.Format("2006-01-02")),
		slog.String("status", string(summary.Status())),
		slog.Int("races_total", summary.RacesTotal),
		slog.Int("in_progress", summary.InProgress),
		slog.Int("finished", summary.Finished),
		slog.Int("race_errors", len(summary.RaceErrors)),
	)
	return nil
}

// BackfillMode replays the configured date range day by day.
func (a *App) BackfillMode(ctx context.Context, deps *Dependencies) error {
	start, end, err := a.cfg.Backfill.Range()
	if err != nil {
		return fmt.Errorf("app: backfill range: %w", err)
	}

	a.logger.InfoContext(ctx, "starting backfill mode",
		slog.String("start", start.Format("2006-01-02")),
		slog.String("end", end.Format("2006-01-02")),
	)

	if err := deps.Backfill.Run(ctx, start, end); err != nil {
		return fmt.Errorf("app: backfill: %w", err)
	}
	return nil
}

// ArchiveMode copies the target year's day files to the cold archive, one
// object per day, then uploads the year bundle. The year comes from the
// backfill config when set, otherwise from the target date.
func (a *App) ArchiveMode(ctx context.Context, deps *Dependencies) error {
	if deps.Archiver == nil {
		return fmt.Errorf("app: archive mode requires s3 to be enabled")
	}

	year := a.cfg.Backfill.Year
	if year == 0 {
		year = a.targetDate().Year()
	}

	a.logger.InfoContext(ctx, "starting archive mode", slog.Int("year", year))

	dates, err := deps.Store.Days(year)
	if err != nil {
		return fmt.Errorf("app: archive: %w", err)
	}

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := deps.Archiver.ArchiveDay(ctx, date); err != nil {
			return fmt.Errorf("app: archive day %s: %w", date.Format("2006-01-02"), err)
		}
	}

	count, err := deps.Archiver.ArchiveYear(ctx, year)
	if err != nil {
		return fmt.Errorf("app: archive year %d: %w", year, err)
	}

	a.logger.InfoContext(ctx, "archive finished",
		slog.Int("year", year),
		slog.Int("days", count),
	)
	return nil
}
