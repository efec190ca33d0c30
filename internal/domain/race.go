package domain

import "time"

// Race is the typed view of a race's static metadata, produced by the
// repository mapping layer from a persisted RaceRecord.
type Race struct {
	ID                    RaceKey
	Date                  time.Time
	HeureDepart           time.Time
	MontantPrix           int64
	Distance              int
	Discipline            Discipline
	Specialite            Specialite
	NombreParticipants    int
	ConditionSexe         ConditionSexe
	Hippodrome            Hippodrome
	Meteo                 *Meteo
	Nature                Nature
	GrandPrixNationalTrot bool
	MontantOffert1er      int64
	MontantOffert2eme     int64
	MontantOffert3eme     int64
}
