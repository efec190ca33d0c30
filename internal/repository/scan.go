package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lmercadier/turfdata/internal/daystore"
	"github.com/lmercadier/turfdata/internal/domain"
)

func parseHorseNumber(key string) (int, error) {
	return strconv.Atoi(key)
}

// dayFiles is the shared directory-walking base of the repositories.
type dayFiles struct {
	store *daystore.Store
}

// availableYears lists the year directories present under the store root,
// ascending. A missing root is an empty store, not an error.
func (d *dayFiles) availableYears() ([]int, error) {
	entries, err := os.ReadDir(d.store.BaseDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: scan years: %w", err)
	}

	var years []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		year, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

// yearsToSearch resolves the year filter: a positive year narrows the walk
// to that year, zero means every available year.
func (d *dayFiles) yearsToSearch(year int) ([]int, error) {
	if year > 0 {
		return []int{year}, nil
	}
	return d.availableYears()
}

// walkYear invokes fn for every day document stored under one year. The
// walk honors context cancellation between files. Unreadable or misnamed
// files are skipped.
func (d *dayFiles) walkYear(ctx context.Context, year int, fn func(date time.Time, doc domain.DayDocument)) error {
	dir := fmt.Sprintf("%s/%d", d.store.BaseDir(), year)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("repository: scan year %d: %w", year, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		date, err := time.Parse("02_01_2006", strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		doc, err := d.store.Load(date)
		if err != nil {
			continue
		}
		fn(date, doc)
	}
	return nil
}

func newDayFiles(basePath string) dayFiles {
	return dayFiles{store: daystore.New(basePath)}
}
