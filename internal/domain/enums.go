package domain

// Discipline is the racing discipline of a course.
type Discipline string

const (
	DisciplineAttele   Discipline = "ATTELE"
	DisciplineMonte    Discipline = "MONTE"
	DisciplinePlat     Discipline = "PLAT"
	DisciplineObstacle Discipline = "OBSTACLE"
)

// Specialite refines the discipline (trot vs gallop variants).
type Specialite string

const (
	SpecialiteTrotAttele    Specialite = "TROT_ATTELE"
	SpecialiteTrotMonte     Specialite = "TROT_MONTE"
	SpecialiteGalopPlat     Specialite = "GALOP_PLAT"
	SpecialiteGalopObstacle Specialite = "GALOP_OBSTACLE"
)

// ConditionSexe restricts which horses may enter a race.
type ConditionSexe string

const (
	ConditionMalesEtHongres ConditionSexe = "MALES_ET_HONGRES"
	ConditionFemelles       ConditionSexe = "FEMELLES"
	ConditionMixte          ConditionSexe = "MIXTE"
)

// Nature distinguishes daytime from nighttime meetings.
type Nature string

const (
	NatureDiurne   Nature = "DIURNE"
	NatureNocturne Nature = "NOCTURNE"
)

// Oeilleres is a blinkers code attached to a runner.
type Oeilleres string

const (
	OeilleresSans        Oeilleres = "SANS_OEILLERES"
	OeilleresClassiques  Oeilleres = "OEILLERES_CLASSIQUE"
	OeilleresAustraliens Oeilleres = "OEILLERES_AUSTRALIENNES"
)

// Deferre is a shoeing code attached to a trot runner.
type Deferre string

const (
	DeferreAnterieurs            Deferre = "DEFERRE_ANTERIEURS"
	DeferrePosterieurs           Deferre = "DEFERRE_POSTERIEURS"
	DeferreAnterieursPosterieurs Deferre = "DEFERRE_ANTERIEURS_POSTERIEURS"
)

// TypePari is a bet type offered on a race. Only the internet ("E_")
// variants are retained by the final payout mapping; codes outside this set
// are counted and reported as anomalies instead of being silently dropped.
type TypePari string

const (
	PariSimpleGagnant TypePari = "E_SIMPLE_GAGNANT"
	PariSimplePlace   TypePari = "E_SIMPLE_PLACE"
	PariCoupleGagnant TypePari = "E_COUPLE_GAGNANT"
	PariCouplePlace   TypePari = "E_COUPLE_PLACE"
	PariTrio          TypePari = "E_TRIO"
	PariSuperQuatre   TypePari = "E_SUPER_QUATRE"
)

// knownPariTypes is the closed set accepted by ParseTypePari.
var knownPariTypes = map[TypePari]struct{}{
	PariSimpleGagnant: {},
	PariSimplePlace:   {},
	PariCoupleGagnant: {},
	PariCouplePlace:   {},
	PariTrio:          {},
	PariSuperQuatre:   {},
}

// ParseTypePari validates a remote bet-type code. The second return is false
// when the code is not part of the recognized set.
func ParseTypePari(code string) (TypePari, bool) {
	tp := TypePari(code)
	_, ok := knownPariTypes[tp]
	return tp, ok
}
