package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// RaceRepository reads race metadata from the day-store tree.
type RaceRepository struct {
	dayFiles
}

// NewRaceRepository creates a repository over the given store root.
func NewRaceRepository(basePath string) *RaceRepository {
	return &RaceRepository{dayFiles: newDayFiles(basePath)}
}

// GetByID returns one race, looked up by its key and date. It returns
// domain.ErrNotFound when the day file or the race is missing.
func (r *RaceRepository) GetByID(id domain.RaceKey, date time.Time) (domain.Race, error) {
	doc, err := r.store.Load(date)
	if err != nil {
		return domain.Race{}, err
	}
	rec, ok := doc[id]
	if !ok {
		return domain.Race{}, fmt.Errorf("repository: race %s: %w", id, domain.ErrNotFound)
	}
	return mapRace(id, date, rec), nil
}

// ListByDate returns every race held on the given date, ordered by key.
func (r *RaceRepository) ListByDate(date time.Time) ([]domain.Race, error) {
	doc, err := r.store.Load(date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	races := make([]domain.Race, 0, len(doc))
	for key, rec := range doc {
		races = append(races, mapRace(key, date, rec))
	}
	sort.Slice(races, func(i, j int) bool { return races[i].ID < races[j].ID })
	return races, nil
}

// ListByHippodrome returns every race held at the venue with the given code.
// A positive year narrows the search; zero scans all stored years.
func (r *RaceRepository) ListByHippodrome(ctx context.Context, code string, year int) ([]domain.Race, error) {
	years, err := r.yearsToSearch(year)
	if err != nil {
		return nil, err
	}

	var races []domain.Race
	for _, y := range years {
		err := r.walkYear(ctx, y, func(date time.Time, doc domain.DayDocument) {
			for key, rec := range doc {
				if rec.Hippodrome.Code == code {
					races = append(races, mapRace(key, date, rec))
				}
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return races, nil
}

// ListByDistanceRange returns every race whose distance falls in
// [minDistance, maxDistance]. A positive year narrows the search.
func (r *RaceRepository) ListByDistanceRange(ctx context.Context, minDistance, maxDistance, year int) ([]domain.Race, error) {
	years, err := r.yearsToSearch(year)
	if err != nil {
		return nil, err
	}

	var races []domain.Race
	for _, y := range years {
		err := r.walkYear(ctx, y, func(date time.Time, doc domain.DayDocument) {
			for key, rec := range doc {
				if rec.Distance >= minDistance && rec.Distance <= maxDistance {
					races = append(races, mapRace(key, date, rec))
				}
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return races, nil
}
