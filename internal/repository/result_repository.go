package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// ResultRepository reads finished-race results from the day-store tree.
type ResultRepository struct {
	dayFiles
}

// NewResultRepository creates a repository over the given store root.
func NewResultRepository(basePath string) *ResultRepository {
	return &ResultRepository{dayFiles: newDayFiles(basePath)}
}

// GetByRace returns the result of one race. It returns domain.ErrNotFound
// when the race is unknown or has not finished yet.
func (r *ResultRepository) GetByRace(id domain.RaceKey, date time.Time) (domain.RaceResult, error) {
	doc, err := r.store.Load(date)
	if err != nil {
		return domain.RaceResult{}, err
	}
	rec, ok := doc[id]
	if !ok {
		return domain.RaceResult{}, fmt.Errorf("repository: race %s: %w", id, domain.ErrNotFound)
	}
	result, ok := mapResult(id, rec)
	if !ok {
		return domain.RaceResult{}, fmt.Errorf("repository: result for %s: %w", id, domain.ErrNotFound)
	}
	return result, nil
}

// WinningNumbers returns the winner of every finished race, in file walk
// order. A positive year narrows the search; zero scans all stored years.
// Dead-heat co-winners contribute the first listed number.
func (r *ResultRepository) WinningNumbers(ctx context.Context, year int) ([]int, error) {
	years, err := r.yearsToSearch(year)
	if err != nil {
		return nil, err
	}

	var winners []int
	for _, y := range years {
		err := r.walkYear(ctx, y, func(date time.Time, doc domain.DayDocument) {
			for key, rec := range doc {
				result, ok := mapResult(key, rec)
				if !ok {
					continue
				}
				if winner, ok := result.Winner(); ok {
					winners = append(winners, winner)
				}
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return winners, nil
}
