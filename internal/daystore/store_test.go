package daystore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

var testDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestPathLayout(t *testing.T) {
	s := New("/data/raw")
	got := s.Path(testDate)
	want := filepath.Join("/data/raw", "2024", "01_03_2024.json")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load(testDate)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPersistLoadRoundtrip(t *testing.T) {
	s := New(t.TempDir())

	doc := domain.DayDocument{
		domain.NewRaceKey(1, 1): {
			Distance: 2100,
			Rapports: map[string]domain.OddsSeries{"4": {"1000": 7.5}},
		},
	}
	if err := s.Persist(testDate, doc); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, err := s.Load(testDate)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rec := loaded[domain.NewRaceKey(1, 1)]
	if rec == nil {
		t.Fatal("race missing after roundtrip")
	}
	if rec.Distance != 2100 {
		t.Errorf("distance = %d, want 2100", rec.Distance)
	}
	if got := rec.Rapports["4"]["1000"]; got != 7.5 {
		t.Errorf("odds = %v, want 7.5", got)
	}
}

func TestPersistWritesIndentedJSON(t *testing.T) {
	s := New(t.TempDir())
	doc := domain.DayDocument{domain.NewRaceKey(1, 1): {Distance: 2100}}
	if err := s.Persist(testDate, doc); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	data, err := os.ReadFile(s.Path(testDate))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"R1C1\"") {
		t.Errorf("day file not two-space indented:\n%s", data)
	}
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	s := New(t.TempDir())
	doc := domain.DayDocument{domain.NewRaceKey(1, 1): {}}
	if err := s.Persist(testDate, doc); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path(testDate)))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("year dir = %v, want only the day file", names)
	}
}

func TestLoadOrInitBuildsSkeletons(t *testing.T) {
	s := New(t.TempDir())
	catalog := []domain.CatalogRace{
		{NumReunion: 1, NumOrdre: 1, Skeleton: domain.RaceRecord{Distance: 2100}},
		{NumReunion: 2, NumOrdre: 4, Skeleton: domain.RaceRecord{Distance: 1600}},
	}

	doc, err := s.LoadOrInit(testDate, catalog)
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("doc size = %d, want 2", len(doc))
	}
	if doc[domain.NewRaceKey(2, 4)].Distance != 1600 {
		t.Errorf("skeleton distance = %d, want 1600", doc[domain.NewRaceKey(2, 4)].Distance)
	}
}

func TestLoadOrInitPrefersExistingFile(t *testing.T) {
	s := New(t.TempDir())

	existing := domain.DayDocument{
		domain.NewRaceKey(1, 1): {
			Rapports: map[string]domain.OddsSeries{"4": {"1000": 7.5}},
		},
	}
	if err := s.Persist(testDate, existing); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// The catalog skeleton must not wipe accumulated data.
	doc, err := s.LoadOrInit(testDate, []domain.CatalogRace{{NumReunion: 1, NumOrdre: 1}})
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if got := doc[domain.NewRaceKey(1, 1)].Rapports["4"]["1000"]; got != 7.5 {
		t.Errorf("existing odds = %v, want 7.5", got)
	}
}

func TestDaysListsYearChronologically(t *testing.T) {
	s := New(t.TempDir())

	dates := []time.Time{
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if err := s.Persist(d, domain.DayDocument{domain.NewRaceKey(1, 1): {}}); err != nil {
			t.Fatalf("Persist %s: %v", d, err)
		}
	}
	// A different year must not leak in.
	other := time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC)
	if err := s.Persist(other, domain.DayDocument{domain.NewRaceKey(1, 1): {}}); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	got, err := s.Days(2024)
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	want := []string{"2024-01-02", "2024-06-15", "2024-12-31"}
	if len(got) != len(want) {
		t.Fatalf("Days = %v, want %v", got, want)
	}
	for i, d := range got {
		if d.Format("2006-01-02") != want[i] {
			t.Errorf("Days[%d] = %s, want %s", i, d.Format("2006-01-02"), want[i])
		}
	}
}

func TestDaysMissingYear(t *testing.T) {
	s := New(t.TempDir())
	got, err := s.Days(2019)
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Days = %v, want empty", got)
	}
}
