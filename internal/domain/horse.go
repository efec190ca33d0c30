package domain

// Horse is the typed view of one runner in a race: its latest attribute
// snapshot plus the full odds time series observed for it.
type Horse struct {
	Numero   int
	RaceID   RaceKey
	Features HorseFeatures

	// Odds maps snapshot timestamps to the odds quoted at that instant.
	Odds OddsSeries
}

// Blinkers returns the runner's blinkers code as typed vocabulary.
func (h Horse) Blinkers() Oeilleres {
	return Oeilleres(h.Features.Oeilleres)
}

// Shoeing returns the runner's shoeing code as typed vocabulary.
func (h Horse) Shoeing() Deferre {
	return Deferre(h.Features.Deferre)
}
