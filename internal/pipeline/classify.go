package pipeline

import "github.com/lmercadier/turfdata/internal/domain"

// Classification partitions the day's catalog into the races still worth an
// in-progress refresh and the races whose official results can now be
// captured. Terminal races appear in neither set.
type Classification struct {
	InProgress []domain.CatalogRace
	Finished   []domain.CatalogRace
}

// Classify decides, per catalog race, which fetch phase it belongs to.
//
// A race already terminal in the document is excluded outright. A race the
// catalog marks as having published results, with a finishing order in hand,
// moves to the finished set exactly once. Everything else stays in the
// in-progress set so odds and pool snapshots keep accumulating; that covers
// both not-yet-run races and races whose results are not confirmed yet.
func Classify(catalog []domain.CatalogRace, doc domain.DayDocument) Classification {
	var cls Classification
	for _, race := range catalog {
		if rec, ok := doc[race.Key()]; ok && rec.Terminal() {
			continue
		}
		if race.ResultsAvailable && len(race.OrdreArrivee) > 0 {
			cls.Finished = append(cls.Finished, race)
			continue
		}
		cls.InProgress = append(cls.InProgress, race)
	}
	return cls
}
