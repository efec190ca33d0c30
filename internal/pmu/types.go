package pmu

import (
	"strconv"
	"strings"

	"github.com/lmercadier/turfdata/internal/domain"
)

// combinationJoin separates horse numbers inside a pool combination key.
const combinationJoin = "-"

// --------------------------------------------------------------------------
// Program endpoint DTOs
// --------------------------------------------------------------------------

// apiProgram is the envelope of the day program response.
type apiProgram struct {
	Programme struct {
		Reunions []APIMeeting `json:"reunions"`
	} `json:"programme"`
}

// APIMeeting is one meeting of the day program: a venue, its weather
// snapshot, and the races held there.
type APIMeeting struct {
	Nature     string            `json:"nature"`
	Hippodrome domain.Hippodrome `json:"hippodrome"`
	Meteo      *domain.Meteo     `json:"meteo"`
	Courses    []APICourse       `json:"courses"`
}

// APICourse is one race entry of the day program.
type APICourse struct {
	NumReunion                    int     `json:"numReunion"`
	NumOrdre                      int     `json:"numOrdre"`
	HeureDepart                   int64   `json:"heureDepart"`
	MontantPrix                   int64   `json:"montantPrix"`
	Distance                      int     `json:"distance"`
	Discipline                    string  `json:"discipline"`
	Specialite                    string  `json:"specialite"`
	NombreDeclaresPartants        int     `json:"nombreDeclaresPartants"`
	ConditionSexe                 string  `json:"conditionSexe"`
	GrandPrixNationalTrot         bool    `json:"grandPrixNationalTrot"`
	MontantOffert1er              int64   `json:"montantOffert1er"`
	MontantOffert2eme             int64   `json:"montantOffert2eme"`
	MontantOffert3eme             int64   `json:"montantOffert3eme"`
	RapportsDefinitifsDisponibles bool    `json:"rapportsDefinitifsDisponibles"`
	OrdreArrivee                  [][]int `json:"ordreArrivee"`
}

// ToCatalog flattens the program's meetings into the per-race catalog. The
// meeting-level fields (nature, venue, weather) are folded into each race's
// static skeleton, matching the persisted record shape.
func (p *apiProgram) ToCatalog() []domain.CatalogRace {
	var catalog []domain.CatalogRace
	for i := range p.Programme.Reunions {
		meeting := &p.Programme.Reunions[i]
		for _, course := range meeting.Courses {
			catalog = append(catalog, domain.CatalogRace{
				NumReunion: course.NumReunion,
				NumOrdre:   course.NumOrdre,
				Skeleton: domain.RaceRecord{
					HeureDepart:            course.HeureDepart,
					MontantPrix:            course.MontantPrix,
					Distance:               course.Distance,
					Discipline:             course.Discipline,
					Specialite:             course.Specialite,
					NombreDeclaresPartants: course.NombreDeclaresPartants,
					ConditionSexe:          course.ConditionSexe,
					GrandPrixNationalTrot:  course.GrandPrixNationalTrot,
					MontantOffert1er:       course.MontantOffert1er,
					MontantOffert2eme:      course.MontantOffert2eme,
					MontantOffert3eme:      course.MontantOffert3eme,
					Nature:                 meeting.Nature,
					Hippodrome:             meeting.Hippodrome,
					Meteo:                  meeting.Meteo,
				},
				ResultsAvailable: course.RapportsDefinitifsDisponibles,
				OrdreArrivee:     course.OrdreArrivee,
			})
		}
	}
	return catalog
}

// --------------------------------------------------------------------------
// Participants endpoint DTOs
// --------------------------------------------------------------------------

type apiParticipants struct {
	Participants []APIParticipant `json:"participants"`
}

// APIRapport is a single timestamped odds quote for a runner.
type APIRapport struct {
	DateRapport int64   `json:"dateRapport"`
	Rapport     float64 `json:"rapport"`
}

// APIGains carries a runner's career earnings breakdown.
type APIGains struct {
	GainsCarriere        int64 `json:"gainsCarriere"`
	GainsVictoires       int64 `json:"gainsVictoires"`
	GainsPlace           int64 `json:"gainsPlace"`
	GainsAnneeEnCours    int64 `json:"gainsAnneeEnCours"`
	GainsAnneePrecedente int64 `json:"gainsAnneePrecedente"`
}

// APIParticipant is one runner as returned by the participants endpoint.
type APIParticipant struct {
	NumPmu                  int         `json:"numPmu"`
	DernierRapportDirect    *APIRapport `json:"dernierRapportDirect"`
	DernierRapportReference *APIRapport `json:"dernierRapportReference"`
	Musique                 string      `json:"musique"`
	Age                     int         `json:"age"`
	Oeilleres               string      `json:"oeilleres"`
	Deferre                 string      `json:"deferre"`
	NombreCourses           int         `json:"nombreCourses"`
	NombreVictoires         int         `json:"nombreVictoires"`
	NombrePlaces            int         `json:"nombrePlaces"`
	NombrePlacesSecond      int         `json:"nombrePlacesSecond"`
	NombrePlacesTroisieme   int         `json:"nombrePlacesTroisieme"`
	DriverChange            bool        `json:"driverChange"`
	AvisEntraineur          string      `json:"avisEntraineur"`
	IndicateurInedit        bool        `json:"indicateurInedit"`
	Driver                  string      `json:"driver"`
	Entraineur              string      `json:"entraineur"`
	GainsParticipant        *APIGains   `json:"gainsParticipant"`
}

// features maps the participant's attributes to the persisted snapshot.
func (p *APIParticipant) features() domain.HorseFeatures {
	f := domain.HorseFeatures{
		Musique:               p.Musique,
		Age:                   p.Age,
		Oeilleres:             p.Oeilleres,
		Deferre:               p.Deferre,
		NombreCourses:         p.NombreCourses,
		NombreVictoires:       p.NombreVictoires,
		NombrePlaces:          p.NombrePlaces,
		NombrePlacesSecond:    p.NombrePlacesSecond,
		NombrePlacesTroisieme: p.NombrePlacesTroisieme,
		DriverChange:          p.DriverChange,
		AvisEntraineur:        p.AvisEntraineur,
		IndicateurInedit:      p.IndicateurInedit,
		Driver:                p.Driver,
		Entraineur:            p.Entraineur,
	}
	if g := p.GainsParticipant; g != nil {
		f.GainsCarriere = g.GainsCarriere
		f.GainsVictoires = g.GainsVictoires
		f.GainsPlace = g.GainsPlace
		f.GainsAnneeEnCours = g.GainsAnneeEnCours
		f.GainsAnneePrecedente = g.GainsAnneePrecedente
	}
	return f
}

// participantsToUpdate builds the odds and attribute part of an in-progress
// update. Runners without a direct quote contribute no odds entry, but their
// attribute snapshot is still captured.
func participantsToUpdate(participants []APIParticipant, upd *domain.RaceUpdate) {
	upd.Rapports = make(map[string]domain.OddsSeries)
	upd.HorseFeatures = make(map[string]domain.HorseFeatures, len(participants))

	for i := range participants {
		p := &participants[i]
		num := strconv.Itoa(p.NumPmu)
		upd.HorseFeatures[num] = p.features()

		if p.DernierRapportDirect == nil {
			continue
		}
		series := make(domain.OddsSeries, 2)
		for _, quote := range []*APIRapport{p.DernierRapportDirect, p.DernierRapportReference} {
			if quote == nil {
				continue
			}
			series[strconv.FormatInt(quote.DateRapport, 10)] = quote.Rapport
		}
		upd.Rapports[num] = series
	}
}

// --------------------------------------------------------------------------
// Combinations endpoint DTOs
// --------------------------------------------------------------------------

type apiCombinations struct {
	Combinaisons []APIBet `json:"combinaisons"`
}

// APIBet groups every open combination of one bet kind, stamped with the
// pool's last update time.
type APIBet struct {
	PariType          string           `json:"pariType"`
	UpdateTime        int64            `json:"updateTime"`
	ListeCombinaisons []APICombination `json:"listeCombinaisons"`
}

// APICombination is one bettable combination and its cumulative stake.
type APICombination struct {
	Combinaison []int   `json:"combinaison"`
	TotalEnjeu  float64 `json:"totalEnjeu"`
}

// combinationKey joins horse numbers into the persisted combination key.
func combinationKey(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, combinationJoin)
}

// combinationsToUpdate builds the pool part of an in-progress update: one
// timestamped total per combination, keyed by bet kind.
func combinationsToUpdate(bets []APIBet, upd *domain.RaceUpdate) {
	upd.Enjeux = make(map[string]map[string]domain.PoolSeries, len(bets))
	for _, bet := range bets {
		ts := strconv.FormatInt(bet.UpdateTime, 10)
		pools := make(map[string]domain.PoolSeries, len(bet.ListeCombinaisons))
		for _, comb := range bet.ListeCombinaisons {
			pools[combinationKey(comb.Combinaison)] = domain.PoolSeries{ts: comb.TotalEnjeu}
		}
		upd.Enjeux[bet.PariType] = pools
	}
}

// --------------------------------------------------------------------------
// Final payout endpoint DTOs
// --------------------------------------------------------------------------

// APIFinalBet carries the official payout table for one bet type.
type APIFinalBet struct {
	TypePari string            `json:"typePari"`
	Rapports []APIFinalRapport `json:"rapports"`
}

// APIFinalRapport is the payout for one combination, expressed in cents per
// unit stake.
type APIFinalRapport struct {
	Combinaison         string  `json:"combinaison"`
	DividendePourUnEuro float64 `json:"dividendePourUnEuro"`
}

// finalToUpdate maps the payout tables onto the recognized bet-type set.
// Payouts under an unrecognized code are left out and the code is recorded
// in UnknownBetTypes so the caller can report the omission.
func finalToUpdate(bets []APIFinalBet, upd *domain.RaceUpdate) {
	upd.RapportsDefinitifs = make(map[string]map[string]float64, len(bets))
	for _, bet := range bets {
		tp, ok := domain.ParseTypePari(bet.TypePari)
		if !ok {
			upd.UnknownBetTypes = append(upd.UnknownBetTypes, bet.TypePari)
			continue
		}
		table := make(map[string]float64, len(bet.Rapports))
		for _, r := range bet.Rapports {
			table[r.Combinaison] = r.DividendePourUnEuro / 100
		}
		upd.RapportsDefinitifs[string(tp)] = table
	}
}
