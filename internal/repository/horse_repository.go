package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// HorseRepository reads runner data from the day-store tree.
type HorseRepository struct {
	dayFiles
}

// NewHorseRepository creates a repository over the given store root.
func NewHorseRepository(basePath string) *HorseRepository {
	return &HorseRepository{dayFiles: newDayFiles(basePath)}
}

// ListByRace returns every runner of one race, ordered by number.
func (r *HorseRepository) ListByRace(id domain.RaceKey, date time.Time) ([]domain.Horse, error) {
	doc, err := r.store.Load(date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	rec, ok := doc[id]
	if !ok {
		return nil, nil
	}
	return mapHorses(id, rec), nil
}

// GetByNumber returns one runner of a race, looked up by its number.
func (r *HorseRepository) GetByNumber(id domain.RaceKey, number int, date time.Time) (domain.Horse, error) {
	doc, err := r.store.Load(date)
	if err != nil {
		return domain.Horse{}, err
	}
	rec, ok := doc[id]
	if !ok {
		return domain.Horse{}, fmt.Errorf("repository: race %s: %w", id, domain.ErrNotFound)
	}

	numberKey := strconv.Itoa(number)
	if _, ok := rec.HorseFeatures[numberKey]; !ok {
		return domain.Horse{}, fmt.Errorf("repository: horse %d in %s: %w", number, id, domain.ErrNotFound)
	}
	return mapHorse(id, number, numberKey, rec), nil
}

// ListByDriver returns every runner driven by the given driver. A positive
// year narrows the search; zero scans all stored years.
func (r *HorseRepository) ListByDriver(ctx context.Context, driver string, year int) ([]domain.Horse, error) {
	years, err := r.yearsToSearch(year)
	if err != nil {
		return nil, err
	}

	var horses []domain.Horse
	for _, y := range years {
		err := r.walkYear(ctx, y, func(date time.Time, doc domain.DayDocument) {
			for key, rec := range doc {
				for numberKey, features := range rec.HorseFeatures {
					if features.Driver != driver {
						continue
					}
					number, err := parseHorseNumber(numberKey)
					if err != nil {
						continue
					}
					horses = append(horses, mapHorse(key, number, numberKey, rec))
				}
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return horses, nil
}
