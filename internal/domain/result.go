package domain

// RaceResult is the typed view of a finished race: the official finishing
// order and the final payout table, keyed by recognized bet type.
type RaceResult struct {
	RaceID             RaceKey
	OrdreArrivee       [][]int
	RapportsDefinitifs map[TypePari]map[string]float64
}

// Winner returns the number of the winning horse, or false when no order is
// recorded. Dead-heat winners return the first listed number.
func (r RaceResult) Winner() (int, bool) {
	if len(r.OrdreArrivee) == 0 || len(r.OrdreArrivee[0]) == 0 {
		return 0, false
	}
	return r.OrdreArrivee[0][0], true
}

// Podium returns the horse numbers of the first three finishing groups,
// flattened in order. Dead heats contribute every tied number.
func (r RaceResult) Podium() []int {
	var podium []int
	for i := 0; i < len(r.OrdreArrivee) && i < 3; i++ {
		podium = append(podium, r.OrdreArrivee[i]...)
	}
	return podium
}
