// Package daystore persists one JSON document per calendar date, mapping
// race keys to their accumulated records. The on-disk layout is
// <dir>/<year>/<dd_mm_yyyy>.json and the document shape is the contract the
// query repositories read back.
package daystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// fileDateLayout names day files after their date.
const fileDateLayout = "02_01_2006"

// Store reads and writes per-day documents under a base directory.
type Store struct {
	baseDir string
}

// New creates a Store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the root of the day-file tree.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Path returns the file path holding the given date's document.
func (s *Store) Path(date time.Time) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%d", date.Year()), date.Format(fileDateLayout)+".json")
}

// Days lists the dates for which a day file exists in the given year, in
// chronological order. A year with no directory yields an empty slice.
func (s *Store) Days(year int) ([]time.Time, error) {
	dir := filepath.Join(s.baseDir, fmt.Sprintf("%d", year))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("daystore: read year dir %d: %w", year, err)
	}

	var dates []time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		date, err := time.Parse(fileDateLayout, name[:len(name)-len(".json")])
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Load reads the document for a date. It returns domain.ErrNotFound when no
// file exists yet.
func (s *Store) Load(date time.Time) (domain.DayDocument, error) {
	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("daystore: %w: %s", domain.ErrNotFound, date.Format(fileDateLayout))
		}
		return nil, fmt.Errorf("daystore: read %s: %w", date.Format(fileDateLayout), err)
	}

	var doc domain.DayDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("daystore: decode %s: %w", date.Format(fileDateLayout), err)
	}
	return doc, nil
}

// LoadOrInit loads the existing document for a date, or builds a fresh one
// holding a static skeleton record per catalog race. The skeleton carries
// metadata only; dynamic fields accumulate over subsequent pipeline runs.
func (s *Store) LoadOrInit(date time.Time, catalog []domain.CatalogRace) (domain.DayDocument, error) {
	doc, err := s.Load(date)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	doc = make(domain.DayDocument, len(catalog))
	for _, race := range catalog {
		rec := race.Skeleton
		doc[race.Key()] = &rec
	}
	return doc, nil
}

// Persist writes the full document back, replacing any prior content. The
// write goes to a temporary file first and is renamed into place, so a
// failure part-way leaves the previous file untouched.
func (s *Store) Persist(date time.Time, doc domain.DayDocument) error {
	path := s.Path(date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("daystore: create year dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("daystore: encode %s: %w", date.Format(fileDateLayout), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("daystore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("daystore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("daystore: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("daystore: replace %s: %w", date.Format(fileDateLayout), err)
	}
	return nil
}
