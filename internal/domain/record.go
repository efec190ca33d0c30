package domain

import "fmt"

// RaceKey identifies a race within a day: meeting ordinal plus race ordinal,
// rendered as "R<meeting>C<race>". Stable across every fetch phase.
type RaceKey string

// NewRaceKey builds the canonical key for a meeting/race ordinal pair.
func NewRaceKey(meeting, race int) RaceKey {
	return RaceKey(fmt.Sprintf("R%dC%d", meeting, race))
}

// Hippodrome identifies the venue of a meeting.
type Hippodrome struct {
	Code         string `json:"code"`
	LibelleCourt string `json:"libelleCourt"`
	LibelleLong  string `json:"libelleLong"`
}

// Meteo is the weather snapshot attached to a meeting, when the remote
// source provides one.
type Meteo struct {
	DatePrevision          int64  `json:"datePrevision,omitempty"`
	NebulositeCode         string `json:"nebulositeCode,omitempty"`
	NebulositeLibelleCourt string `json:"nebulositeLibelleCourt,omitempty"`
	NebulositeLibelleLong  string `json:"nebulositeLibelleLong,omitempty"`
	Temperature            int    `json:"temperature"`
	ForceVent              int    `json:"forceVent"`
	DirectionVent          string `json:"directionVent,omitempty"`
}

// HorseFeatures is the latest-known attribute snapshot for one runner. It is
// not a time series: each fetch overwrites the previous snapshot wholesale.
type HorseFeatures struct {
	Musique               string `json:"musique,omitempty"`
	Age                   int    `json:"age,omitempty"`
	Oeilleres             string `json:"oeilleres,omitempty"`
	Deferre               string `json:"deferre,omitempty"`
	NombreCourses         int    `json:"nombreCourses"`
	NombreVictoires       int    `json:"nombreVictoires"`
	NombrePlaces          int    `json:"nombrePlaces"`
	NombrePlacesSecond    int    `json:"nombrePlacesSecond"`
	NombrePlacesTroisieme int    `json:"nombrePlacesTroisieme"`
	DriverChange          bool   `json:"driverChange"`
	AvisEntraineur        string `json:"avisEntraineur,omitempty"`
	IndicateurInedit      bool   `json:"indicateurInedit"`
	Driver                string `json:"driver,omitempty"`
	Entraineur            string `json:"entraineur,omitempty"`
	GainsCarriere         int64  `json:"gainsCarriere,omitempty"`
	GainsVictoires        int64  `json:"gainsVictoires,omitempty"`
	GainsPlace            int64  `json:"gainsPlace,omitempty"`
	GainsAnneeEnCours     int64  `json:"gainsAnneeEnCours,omitempty"`
	GainsAnneePrecedente  int64  `json:"gainsAnneePrecedente,omitempty"`
}

// OddsSeries maps a snapshot timestamp (epoch milliseconds as a string, the
// remote source's own clock) to the odds observed at that instant.
type OddsSeries map[string]float64

// PoolSeries maps a snapshot timestamp to the cumulative amount staked on a
// combination at that instant.
type PoolSeries map[string]float64

// RaceRecord is the persisted representation of one race. Static metadata is
// captured once at day initialization; rapports and enjeux accumulate
// timestamped snapshots across runs; ordreArrivee and rapportsDefinitifs
// appear exactly once, when official results are published.
//
// The JSON shape is the on-disk contract consumed by the query repositories
// and must not change.
type RaceRecord struct {
	HeureDepart            int64      `json:"heureDepart"`
	MontantPrix            int64      `json:"montantPrix"`
	Distance               int        `json:"distance"`
	Discipline             string     `json:"discipline"`
	Specialite             string     `json:"specialite"`
	NombreDeclaresPartants int        `json:"nombreDeclaresPartants"`
	ConditionSexe          string     `json:"conditionSexe"`
	GrandPrixNationalTrot  bool       `json:"grandPrixNationalTrot"`
	MontantOffert1er       int64      `json:"montantOffert1er,omitempty"`
	MontantOffert2eme      int64      `json:"montantOffert2eme,omitempty"`
	MontantOffert3eme      int64      `json:"montantOffert3eme,omitempty"`
	Nature                 string     `json:"nature,omitempty"`
	Hippodrome             Hippodrome `json:"hippodrome"`
	Meteo                  *Meteo     `json:"meteo,omitempty"`

	// Rapports: horse number -> timestamp -> odds. Append-only.
	Rapports map[string]OddsSeries `json:"rapports,omitempty"`

	// Enjeux: bet kind -> combination key ("1-5-3") -> timestamp -> total
	// staked. Append-only.
	Enjeux map[string]map[string]PoolSeries `json:"enjeux,omitempty"`

	// HorseFeatures: horse number -> latest attribute snapshot.
	HorseFeatures map[string]HorseFeatures `json:"horse_features,omitempty"`

	// OrdreArrivee is the official finishing order as dead-heat groups of
	// horse numbers. Its presence marks the record terminal.
	OrdreArrivee [][]int `json:"ordreArrivee,omitempty"`

	// RapportsDefinitifs: bet type -> combination -> payout per unit stake.
	RapportsDefinitifs map[string]map[string]float64 `json:"rapportsDefinitifs,omitempty"`
}

// Terminal reports whether official results have been recorded. Terminal
// records are never refetched or mutated again.
func (r *RaceRecord) Terminal() bool {
	return len(r.OrdreArrivee) > 0
}

// DayDocument holds every race of one calendar date, keyed by RaceKey.
type DayDocument map[RaceKey]*RaceRecord

// Complete reports whether every race of the day is terminal. An empty
// document is not complete: it means the day has not been fetched yet.
func (d DayDocument) Complete() bool {
	if len(d) == 0 {
		return false
	}
	for _, rec := range d {
		if !rec.Terminal() {
			return false
		}
	}
	return true
}

// RaceUpdate is the partial result of one per-race fetch. Fields left nil
// are not touched by the merge.
type RaceUpdate struct {
	Rapports           map[string]OddsSeries
	Enjeux             map[string]map[string]PoolSeries
	HorseFeatures      map[string]HorseFeatures
	OrdreArrivee       [][]int
	RapportsDefinitifs map[string]map[string]float64

	// UnknownBetTypes lists remote bet-type codes that were not part of the
	// recognized set and whose payouts were therefore left out. Surfaced so
	// callers can report the loss instead of swallowing it.
	UnknownBetTypes []string
}

// CatalogRace is one race as announced by the day's program: the ordinal
// identifiers, the static metadata skeleton, and the remote flags that drive
// classification.
type CatalogRace struct {
	NumReunion int
	NumOrdre   int

	// Skeleton carries the static metadata used to initialize the day
	// document on first fetch.
	Skeleton RaceRecord

	// ResultsAvailable is the remote flag saying official payouts are
	// published.
	ResultsAvailable bool

	// OrdreArrivee is the finishing order when the catalog already embeds
	// it; nil otherwise.
	OrdreArrivee [][]int
}

// Key returns the race's identifier within the day.
func (c CatalogRace) Key() RaceKey {
	return NewRaceKey(c.NumReunion, c.NumOrdre)
}
