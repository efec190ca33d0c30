package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lmercadier/turfdata/internal/daystore"
	"github.com/lmercadier/turfdata/internal/domain"
)

var testDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// fakeSource serves a fixed catalog and canned per-race responses, counting
// remote calls so tests can assert on fetch traffic.
type fakeSource struct {
	catalog    []domain.CatalogRace
	programErr error

	running     map[domain.RaceKey]domain.RaceUpdate
	runningErr  map[domain.RaceKey]error
	finished    map[domain.RaceKey]domain.RaceUpdate
	finishedErr map[domain.RaceKey]error

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Program(ctx context.Context, date time.Time) ([]domain.CatalogRace, error) {
	if f.programErr != nil {
		return nil, f.programErr
	}
	return f.catalog, nil
}

func (f *fakeSource) FetchRunning(ctx context.Context, date time.Time, race domain.CatalogRace) (domain.RaceUpdate, error) {
	f.count()
	if err := f.runningErr[race.Key()]; err != nil {
		return domain.RaceUpdate{}, err
	}
	return f.running[race.Key()], nil
}

func (f *fakeSource) FetchFinished(ctx context.Context, date time.Time, race domain.CatalogRace) (domain.RaceUpdate, error) {
	f.count()
	if err := f.finishedErr[race.Key()]; err != nil {
		return domain.RaceUpdate{}, err
	}
	return f.finished[race.Key()], nil
}

func (f *fakeSource) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memoryRunStore records run bookkeeping in memory.
type memoryRunStore struct {
	mu   sync.Mutex
	runs []domain.RunRecord
}

func (s *memoryRunStore) Record(ctx context.Context, run domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *memoryRunStore) ListByDate(ctx context.Context, date time.Time) ([]domain.RunRecord, error) {
	return s.runs, nil
}

func (s *memoryRunStore) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	return s.runs, nil
}

type heldLockManager struct{}

func (heldLockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return nil, domain.ErrLockHeld
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, source *fakeSource, runs domain.RunStore) (*Pipeline, *daystore.Store) {
	t.Helper()
	store := daystore.New(t.TempDir())
	fetcher := NewFetcher(source, 4, discardLogger())
	return New(source, fetcher, store, nil, runs, discardLogger()), store
}

func TestRunDayMergesBothPhases(t *testing.T) {
	keyA := domain.NewRaceKey(1, 1)
	keyB := domain.NewRaceKey(1, 2)

	source := &fakeSource{
		catalog: []domain.CatalogRace{
			{NumReunion: 1, NumOrdre: 1, Skeleton: domain.RaceRecord{Distance: 2100}},
			{
				NumReunion: 1, NumOrdre: 2,
				Skeleton:         domain.RaceRecord{Distance: 2700},
				ResultsAvailable: true,
				OrdreArrivee:     [][]int{{4}, {7}, {1}},
			},
		},
		running: map[domain.RaceKey]domain.RaceUpdate{
			keyA: {
				Rapports:      map[string]domain.OddsSeries{"4": {"1000": 7.5}},
				HorseFeatures: map[string]domain.HorseFeatures{"4": {Age: 5}},
			},
		},
		finished: map[domain.RaceKey]domain.RaceUpdate{
			keyB: {
				OrdreArrivee: [][]int{{4}, {7}, {1}},
				RapportsDefinitifs: map[string]map[string]float64{
					"E_SIMPLE_GAGNANT": {"4": 7.5},
				},
			},
		},
	}

	p, store := newTestPipeline(t, source, nil)

	summary, err := p.RunDay(context.Background(), testDate)
	if err != nil {
		t.Fatalf("RunDay: %v", err)
	}
	if summary.RacesTotal != 2 || summary.InProgress != 1 || summary.Finished != 1 {
		t.Errorf("summary = %+v, want 2 races, 1 in progress, 1 finished", summary)
	}
	if summary.Status() != domain.RunStatusCompleted {
		t.Errorf("status = %s, want completed", summary.Status())
	}

	doc, err := store.Load(testDate)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := doc[keyA].Rapports["4"]["1000"]; got != 7.5 {
		t.Errorf("race A odds = %v, want 7.5", got)
	}
	if doc[keyA].Distance != 2100 {
		t.Errorf("race A distance = %d, want skeleton value 2100", doc[keyA].Distance)
	}
	if !doc[keyB].Terminal() {
		t.Error("race B not terminal after finished fetch")
	}
	if got := doc[keyB].RapportsDefinitifs["E_SIMPLE_GAGNANT"]["4"]; got != 7.5 {
		t.Errorf("race B payout = %v, want 7.5", got)
	}
}

func TestRunDayCompleteShortCircuits(t *testing.T) {
	source := &fakeSource{
		catalog: []domain.CatalogRace{
			{
				NumReunion: 1, NumOrdre: 1,
				ResultsAvailable: true,
				OrdreArrivee:     [][]int{{4}},
			},
		},
		finished: map[domain.RaceKey]domain.RaceUpdate{
			domain.NewRaceKey(1, 1): {OrdreArrivee: [][]int{{4}}},
		},
	}

	runs := &memoryRunStore{}
	p, store := newTestPipeline(t, source, runs)

	if _, err := p.RunDay(context.Background(), testDate); err != nil {
		t.Fatalf("first RunDay: %v", err)
	}
	firstData, err := os.ReadFile(store.Path(testDate))
	if err != nil {
		t.Fatalf("read day file: %v", err)
	}
	callsAfterFirst := source.callCount()

	summary, err := p.RunDay(context.Background(), testDate)
	if err != nil {
		t.Fatalf("second RunDay: %v", err)
	}
	if !summary.Skipped {
		t.Error("second run not skipped")
	}
	if got := source.callCount(); got != callsAfterFirst {
		t.Errorf("second run issued %d extra fetches, want 0", got-callsAfterFirst)
	}

	secondData, err := os.ReadFile(store.Path(testDate))
	if err != nil {
		t.Fatalf("read day file: %v", err)
	}
	if string(firstData) != string(secondData) {
		t.Error("day file changed on a skipped run")
	}

	if len(runs.runs) != 2 || runs.runs[1].Status != domain.RunStatusSkipped {
		t.Errorf("run records = %+v, want second marked skipped", runs.runs)
	}
}

func TestRunDayIsolatesFailingRace(t *testing.T) {
	keyA := domain.NewRaceKey(1, 1)
	keyB := domain.NewRaceKey(1, 2)

	source := &fakeSource{
		catalog: []domain.CatalogRace{
			{NumReunion: 1, NumOrdre: 1},
			{NumReunion: 1, NumOrdre: 2},
		},
		running: map[domain.RaceKey]domain.RaceUpdate{
			keyB: {Rapports: map[string]domain.OddsSeries{"2": {"1000": 3.4}}},
		},
		runningErr: map[domain.RaceKey]error{
			keyA: domain.ErrSourceUnavailable,
		},
	}

	runs := &memoryRunStore{}
	p, store := newTestPipeline(t, source, runs)

	summary, err := p.RunDay(context.Background(), testDate)
	if err != nil {
		t.Fatalf("RunDay returned fatal error for a per-race failure: %v", err)
	}
	if len(summary.RaceErrors) != 1 {
		t.Fatalf("race errors = %d, want 1", len(summary.RaceErrors))
	}
	if !errors.Is(summary.RaceErrors[0], domain.ErrSourceUnavailable) {
		t.Errorf("race error = %v, want ErrSourceUnavailable", summary.RaceErrors[0])
	}
	if summary.Status() != domain.RunStatusPartial {
		t.Errorf("status = %s, want partial", summary.Status())
	}

	doc, err := store.Load(testDate)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := doc[keyB].Rapports["2"]["1000"]; got != 3.4 {
		t.Errorf("surviving race odds = %v, want 3.4", got)
	}
	if doc[keyA].Rapports != nil {
		t.Errorf("failed race gained data: %v", doc[keyA].Rapports)
	}

	if len(runs.runs) != 1 || runs.runs[0].FetchErrors != 1 {
		t.Errorf("run record = %+v, want 1 fetch error", runs.runs)
	}
}

func TestRunDayProgramFailureIsFatal(t *testing.T) {
	source := &fakeSource{programErr: domain.ErrSourceUnavailable}
	p, store := newTestPipeline(t, source, nil)

	_, err := p.RunDay(context.Background(), testDate)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
	if _, err := os.Stat(store.Path(testDate)); !os.IsNotExist(err) {
		t.Error("day file created despite catalog failure")
	}
}

func TestRunDayHeldLockIsFatal(t *testing.T) {
	source := &fakeSource{catalog: []domain.CatalogRace{{NumReunion: 1, NumOrdre: 1}}}
	store := daystore.New(t.TempDir())
	fetcher := NewFetcher(source, 4, discardLogger())
	p := New(source, fetcher, store, heldLockManager{}, nil, discardLogger())

	_, err := p.RunDay(context.Background(), testDate)
	if !errors.Is(err, domain.ErrLockHeld) {
		t.Fatalf("err = %v, want ErrLockHeld", err)
	}
	if source.callCount() != 0 {
		t.Errorf("fetches issued under a held lock: %d", source.callCount())
	}
}

func TestRunDayReportsUnknownBetTypes(t *testing.T) {
	source := &fakeSource{
		catalog: []domain.CatalogRace{
			{
				NumReunion: 1, NumOrdre: 1,
				ResultsAvailable: true,
				OrdreArrivee:     [][]int{{4}},
			},
		},
		finished: map[domain.RaceKey]domain.RaceUpdate{
			domain.NewRaceKey(1, 1): {
				OrdreArrivee:    [][]int{{4}},
				UnknownBetTypes: []string{"E_MINI_MULTI"},
			},
		},
	}

	runs := &memoryRunStore{}
	p, _ := newTestPipeline(t, source, runs)

	summary, err := p.RunDay(context.Background(), testDate)
	if err != nil {
		t.Fatalf("RunDay: %v", err)
	}
	if len(summary.UnknownBetTypes) != 1 || summary.UnknownBetTypes[0] != "E_MINI_MULTI" {
		t.Errorf("unknown bet types = %v, want [E_MINI_MULTI]", summary.UnknownBetTypes)
	}
	if runs.runs[0].UnknownBetTypes != 1 {
		t.Errorf("run record unknown bet types = %d, want 1", runs.runs[0].UnknownBetTypes)
	}
}
