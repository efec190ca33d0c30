package pipeline

import (
	"testing"

	"github.com/lmercadier/turfdata/internal/domain"
)

func TestClassifySkipsTerminalRaces(t *testing.T) {
	catalog := []domain.CatalogRace{
		{NumReunion: 1, NumOrdre: 1},
	}
	doc := domain.DayDocument{
		domain.NewRaceKey(1, 1): {OrdreArrivee: [][]int{{4}}},
	}

	cls := Classify(catalog, doc)
	if len(cls.InProgress) != 0 || len(cls.Finished) != 0 {
		t.Errorf("terminal race classified: in-progress=%d finished=%d", len(cls.InProgress), len(cls.Finished))
	}
}

func TestClassifyFinishedNeedsOrderInHand(t *testing.T) {
	catalog := []domain.CatalogRace{
		// Results flag set and order available: finished.
		{NumReunion: 1, NumOrdre: 1, ResultsAvailable: true, OrdreArrivee: [][]int{{4}, {7}}},
		// Results flag set but order missing: stays in progress.
		{NumReunion: 1, NumOrdre: 2, ResultsAvailable: true},
		// Nothing yet: in progress.
		{NumReunion: 1, NumOrdre: 3},
	}
	doc := domain.DayDocument{
		domain.NewRaceKey(1, 1): {},
		domain.NewRaceKey(1, 2): {},
		domain.NewRaceKey(1, 3): {},
	}

	cls := Classify(catalog, doc)

	if len(cls.Finished) != 1 || cls.Finished[0].Key() != domain.NewRaceKey(1, 1) {
		t.Errorf("finished = %v, want [R1C1]", keys(cls.Finished))
	}
	if len(cls.InProgress) != 2 {
		t.Errorf("in-progress = %v, want [R1C2 R1C3]", keys(cls.InProgress))
	}
}

func TestClassifyRaceMissingFromDocument(t *testing.T) {
	catalog := []domain.CatalogRace{
		{NumReunion: 2, NumOrdre: 5},
	}

	cls := Classify(catalog, domain.DayDocument{})
	if len(cls.InProgress) != 1 {
		t.Fatalf("in-progress = %d, want 1", len(cls.InProgress))
	}
}

func keys(races []domain.CatalogRace) []domain.RaceKey {
	out := make([]domain.RaceKey, len(races))
	for i, r := range races {
		out[i] = r.Key()
	}
	return out
}
