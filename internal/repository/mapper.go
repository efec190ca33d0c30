// Package repository exposes read-only queries over the day-store tree:
// races, runners, and results mapped from the persisted record shape into
// typed domain entities. It never contacts the remote source.
package repository

import (
	"sort"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// epochMillis converts a remote millisecond timestamp to time.Time.
func epochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// mapRace builds the typed race view from a persisted record. Enum-like
// fields keep whatever string the source supplied; the typed wrappers only
// give callers names to compare against.
func mapRace(key domain.RaceKey, date time.Time, rec *domain.RaceRecord) domain.Race {
	return domain.Race{
		ID:                    key,
		Date:                  date,
		HeureDepart:           epochMillis(rec.HeureDepart),
		MontantPrix:           rec.MontantPrix,
		Distance:              rec.Distance,
		Discipline:            domain.Discipline(rec.Discipline),
		Specialite:            domain.Specialite(rec.Specialite),
		NombreParticipants:    rec.NombreDeclaresPartants,
		ConditionSexe:         domain.ConditionSexe(rec.ConditionSexe),
		Hippodrome:            rec.Hippodrome,
		Meteo:                 rec.Meteo,
		Nature:                domain.Nature(rec.Nature),
		GrandPrixNationalTrot: rec.GrandPrixNationalTrot,
		MontantOffert1er:      rec.MontantOffert1er,
		MontantOffert2eme:     rec.MontantOffert2eme,
		MontantOffert3eme:     rec.MontantOffert3eme,
	}
}

// mapHorse builds one runner from the record's feature and odds maps.
func mapHorse(key domain.RaceKey, number int, numberKey string, rec *domain.RaceRecord) domain.Horse {
	horse := domain.Horse{
		Numero:   number,
		RaceID:   key,
		Features: rec.HorseFeatures[numberKey],
	}
	if series, ok := rec.Rapports[numberKey]; ok {
		horse.Odds = series
	}
	return horse
}

// mapHorses builds every runner of a race, ordered by number.
func mapHorses(key domain.RaceKey, rec *domain.RaceRecord) []domain.Horse {
	horses := make([]domain.Horse, 0, len(rec.HorseFeatures))
	for numberKey := range rec.HorseFeatures {
		number, err := parseHorseNumber(numberKey)
		if err != nil {
			continue
		}
		horses = append(horses, mapHorse(key, number, numberKey, rec))
	}
	sort.Slice(horses, func(i, j int) bool { return horses[i].Numero < horses[j].Numero })
	return horses
}

// mapResult builds the typed result view, or false when the race has no
// recorded finishing order yet. Payout tables under unrecognized bet-type
// codes are skipped; the collector already reports those at write time.
func mapResult(key domain.RaceKey, rec *domain.RaceRecord) (domain.RaceResult, bool) {
	if !rec.Terminal() {
		return domain.RaceResult{}, false
	}

	result := domain.RaceResult{
		RaceID:       key,
		OrdreArrivee: rec.OrdreArrivee,
	}
	if len(rec.RapportsDefinitifs) > 0 {
		result.RapportsDefinitifs = make(map[domain.TypePari]map[string]float64, len(rec.RapportsDefinitifs))
		for code, table := range rec.RapportsDefinitifs {
			tp, ok := domain.ParseTypePari(code)
			if !ok {
				continue
			}
			result.RapportsDefinitifs[tp] = table
		}
	}
	return result, true
}
