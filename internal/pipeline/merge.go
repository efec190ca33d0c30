package pipeline

import "github.com/lmercadier/turfdata/internal/domain"

// Merge applies a partial update to a race record in place.
//
// Time-series fields (rapports, enjeux) union the update's timestamped
// entries into the existing series: a colliding timestamp is overwritten,
// other timestamps are never deleted. The horse_features snapshot is
// replaced wholesale. The terminal fields (ordreArrivee,
// rapportsDefinitifs) are set only when absent and immutable afterwards.
//
// Merge is associative and commutative across independent races, and
// re-applying an identical update is a no-op.
func Merge(rec *domain.RaceRecord, upd domain.RaceUpdate) {
	mergeRapports(rec, upd.Rapports)
	mergeEnjeux(rec, upd.Enjeux)

	if upd.HorseFeatures != nil {
		rec.HorseFeatures = upd.HorseFeatures
	}
	if rec.OrdreArrivee == nil && len(upd.OrdreArrivee) > 0 {
		rec.OrdreArrivee = upd.OrdreArrivee
	}
	if rec.RapportsDefinitifs == nil && upd.RapportsDefinitifs != nil {
		rec.RapportsDefinitifs = upd.RapportsDefinitifs
	}
}

func mergeRapports(rec *domain.RaceRecord, update map[string]domain.OddsSeries) {
	if len(update) == 0 {
		return
	}
	if rec.Rapports == nil {
		rec.Rapports = make(map[string]domain.OddsSeries, len(update))
	}
	for horse, series := range update {
		existing, ok := rec.Rapports[horse]
		if !ok {
			existing = make(domain.OddsSeries, len(series))
			rec.Rapports[horse] = existing
		}
		for ts, odds := range series {
			existing[ts] = odds
		}
	}
}

func mergeEnjeux(rec *domain.RaceRecord, update map[string]map[string]domain.PoolSeries) {
	if len(update) == 0 {
		return
	}
	if rec.Enjeux == nil {
		rec.Enjeux = make(map[string]map[string]domain.PoolSeries, len(update))
	}
	for betKind, pools := range update {
		existingPools, ok := rec.Enjeux[betKind]
		if !ok {
			existingPools = make(map[string]domain.PoolSeries, len(pools))
			rec.Enjeux[betKind] = existingPools
		}
		for combination, series := range pools {
			existing, ok := existingPools[combination]
			if !ok {
				existing = make(domain.PoolSeries, len(series))
				existingPools[combination] = existing
			}
			for ts, total := range series {
				existing[ts] = total
			}
		}
	}
}
