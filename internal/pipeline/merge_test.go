package pipeline

import (
	"reflect"
	"testing"

	"github.com/lmercadier/turfdata/internal/domain"
)

func TestMergeAppendsRapportsWithoutDeleting(t *testing.T) {
	rec := &domain.RaceRecord{
		Rapports: map[string]domain.OddsSeries{
			"4": {"1000": 7.5},
		},
	}

	Merge(rec, domain.RaceUpdate{
		Rapports: map[string]domain.OddsSeries{
			"4": {"2000": 6.9},
			"7": {"2000": 12.0},
		},
	})

	want := map[string]domain.OddsSeries{
		"4": {"1000": 7.5, "2000": 6.9},
		"7": {"2000": 12.0},
	}
	if !reflect.DeepEqual(rec.Rapports, want) {
		t.Errorf("rapports = %v, want %v", rec.Rapports, want)
	}
}

func TestMergeOverwritesCollidingTimestamp(t *testing.T) {
	rec := &domain.RaceRecord{
		Rapports: map[string]domain.OddsSeries{
			"4": {"1000": 7.5},
		},
	}

	Merge(rec, domain.RaceUpdate{
		Rapports: map[string]domain.OddsSeries{
			"4": {"1000": 7.2},
		},
	})

	if got := rec.Rapports["4"]["1000"]; got != 7.2 {
		t.Errorf("rapports[4][1000] = %v, want 7.2", got)
	}
	if len(rec.Rapports["4"]) != 1 {
		t.Errorf("series length = %d, want 1", len(rec.Rapports["4"]))
	}
}

func TestMergeEnjeuxUnionPerCombination(t *testing.T) {
	rec := &domain.RaceRecord{
		Enjeux: map[string]map[string]domain.PoolSeries{
			"E_SIMPLE_GAGNANT": {
				"4": {"1000": 150.0},
			},
		},
	}

	Merge(rec, domain.RaceUpdate{
		Enjeux: map[string]map[string]domain.PoolSeries{
			"E_SIMPLE_GAGNANT": {
				"4": {"2000": 180.0},
			},
			"E_TRIO": {
				"1-5-3": {"2000": 42.0},
			},
		},
	})

	want := map[string]map[string]domain.PoolSeries{
		"E_SIMPLE_GAGNANT": {
			"4": {"1000": 150.0, "2000": 180.0},
		},
		"E_TRIO": {
			"1-5-3": {"2000": 42.0},
		},
	}
	if !reflect.DeepEqual(rec.Enjeux, want) {
		t.Errorf("enjeux = %v, want %v", rec.Enjeux, want)
	}
}

func TestMergeReplacesHorseFeaturesWholesale(t *testing.T) {
	rec := &domain.RaceRecord{
		HorseFeatures: map[string]domain.HorseFeatures{
			"4": {Driver: "A. Dupont", Age: 5},
			"7": {Driver: "B. Martin", Age: 6},
		},
	}

	Merge(rec, domain.RaceUpdate{
		HorseFeatures: map[string]domain.HorseFeatures{
			"4": {Driver: "C. Bernard", Age: 5},
		},
	})

	if len(rec.HorseFeatures) != 1 {
		t.Fatalf("horse features count = %d, want 1 (wholesale replace)", len(rec.HorseFeatures))
	}
	if got := rec.HorseFeatures["4"].Driver; got != "C. Bernard" {
		t.Errorf("driver = %q, want %q", got, "C. Bernard")
	}
}

func TestMergeNilFeaturesLeavesSnapshotUntouched(t *testing.T) {
	rec := &domain.RaceRecord{
		HorseFeatures: map[string]domain.HorseFeatures{
			"4": {Driver: "A. Dupont"},
		},
	}

	Merge(rec, domain.RaceUpdate{
		Rapports: map[string]domain.OddsSeries{"4": {"1000": 3.1}},
	})

	if len(rec.HorseFeatures) != 1 {
		t.Errorf("horse features count = %d, want 1", len(rec.HorseFeatures))
	}
}

func TestMergeTerminalFieldsSetOnce(t *testing.T) {
	rec := &domain.RaceRecord{}

	first := domain.RaceUpdate{
		OrdreArrivee: [][]int{{4}, {7}, {1}},
		RapportsDefinitifs: map[string]map[string]float64{
			"E_SIMPLE_GAGNANT": {"4": 7.5},
		},
	}
	Merge(rec, first)

	if !rec.Terminal() {
		t.Fatal("record not terminal after results merged")
	}

	// A second result set must not displace the first.
	Merge(rec, domain.RaceUpdate{
		OrdreArrivee: [][]int{{1}, {2}, {3}},
		RapportsDefinitifs: map[string]map[string]float64{
			"E_SIMPLE_GAGNANT": {"1": 2.0},
		},
	})

	if !reflect.DeepEqual(rec.OrdreArrivee, first.OrdreArrivee) {
		t.Errorf("ordreArrivee = %v, want %v", rec.OrdreArrivee, first.OrdreArrivee)
	}
	if got := rec.RapportsDefinitifs["E_SIMPLE_GAGNANT"]["4"]; got != 7.5 {
		t.Errorf("rapportsDefinitifs = %v, want first result kept", rec.RapportsDefinitifs)
	}
}

func TestMergeIdempotent(t *testing.T) {
	upd := domain.RaceUpdate{
		Rapports: map[string]domain.OddsSeries{"4": {"1000": 7.5}},
		Enjeux: map[string]map[string]domain.PoolSeries{
			"E_SIMPLE_GAGNANT": {"4": {"1000": 150.0}},
		},
		HorseFeatures: map[string]domain.HorseFeatures{"4": {Age: 5}},
		OrdreArrivee:  [][]int{{4}},
	}

	a := &domain.RaceRecord{}
	Merge(a, upd)

	b := &domain.RaceRecord{}
	Merge(b, upd)
	Merge(b, upd)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("double merge diverged: %+v vs %+v", a, b)
	}
}
