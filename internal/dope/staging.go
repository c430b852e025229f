package dope

import (
	"sort"
	"sync"
	"time"

	"github.com/quietline/dopebook/internal/domain"
)

// StagingRow is one in-memory per-shot merge result awaiting user edits and
// save. Chronograph, range, and weather fields are read-only provenance;
// the user-editable fields hold free text until save-time coercion.
type StagingRow struct {
	ShotNumber    int     `json:"shot_number"`
	ShotTimestamp string  `json:"shot_timestamp"`
	Speed         float64 `json:"speed"`
	KineticEnergy float64 `json:"kinetic_energy"`
	PowerFactor   float64 `json:"power_factor"`

	AzimuthDeg        *float64 `json:"azimuth_deg,omitempty"`
	ElevationAngleDeg *float64 `json:"elevation_angle_deg,omitempty"`

	// Weather is the matched reading, nil when no source is selected or no
	// reading fell inside the tolerance window.
	Weather *domain.WeatherReading `json:"weather,omitempty"`

	Distance  string `json:"distance"`
	Elevation string `json:"elevation"`
	Windage   string `json:"windage"`
	Notes     string `json:"notes"`
	CleanBore bool   `json:"clean_bore"`
	ColdBore  bool   `json:"cold_bore"`
}

// RowEdit carries changes to a staging row's user-editable fields. Nil
// members leave the current value in place.
type RowEdit struct {
	Distance  *string `json:"distance,omitempty"`
	Elevation *string `json:"elevation,omitempty"`
	Windage   *string `json:"windage,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CleanBore *bool   `json:"clean_bore,omitempty"`
	ColdBore  *bool   `json:"cold_bore,omitempty"`
}

// SelectedSources records which source records a staging session currently
// references, by identifier.
type SelectedSources struct {
	ChronoSessionID string  `json:"chrono_session_id"`
	RangeID         *string `json:"range_id,omitempty"`
	WeatherSourceID *string `json:"weather_source_id,omitempty"`
	RifleID         *string `json:"rifle_id,omitempty"`
	AmmoID          *string `json:"ammo_id,omitempty"`
}

// StagingSession is the explicit handle for one in-progress merge. Each
// handle is scoped to one (owner, chronograph session) pair; state for one
// handle is never visible through another, so concurrent UI tabs cannot
// cross-contaminate.
type StagingSession struct {
	mu sync.Mutex

	id     string
	owner  string
	chrono domain.ChronographSession
	shots  []domain.Shot

	rangeRec *domain.RangeRecord
	weather  *weatherSelection
	rifle    *domain.RifleRecord
	ammo     *domain.AmmunitionRecord

	tolerance time.Duration
	rows      []StagingRow
}

// ID returns the opaque staging handle identifier.
func (s *StagingSession) ID() string { return s.id }

// Owner returns the identity the staging session belongs to.
func (s *StagingSession) Owner() string { return s.owner }

// Chrono returns the chronograph session this staging was begun from.
func (s *StagingSession) Chrono() domain.ChronographSession { return s.chrono }

// Sources reports the currently selected source identifiers.
func (s *StagingSession) Sources() SelectedSources {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := SelectedSources{ChronoSessionID: s.chrono.ID}
	if s.rangeRec != nil {
		sel.RangeID = &s.rangeRec.ID
	}
	if s.weather != nil {
		sel.WeatherSourceID = &s.weather.SourceID
	}
	if s.rifle != nil {
		sel.RifleID = &s.rifle.ID
	}
	if s.ammo != nil {
		sel.AmmoID = &s.ammo.ID
	}
	return sel
}

// Rows returns a copy of the staged rows in ascending shot-number order.
func (s *StagingSession) Rows() []StagingRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StagingRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// EditRow applies edits to the user-editable fields of one staged row.
// Read-only provenance fields cannot be edited.
func (s *StagingSession) EditRow(shotNumber int, edit RowEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ShotNumber != shotNumber {
			continue
		}
		r := &s.rows[i]
		if edit.Distance != nil {
			r.Distance = *edit.Distance
		}
		if edit.Elevation != nil {
			r.Elevation = *edit.Elevation
		}
		if edit.Windage != nil {
			r.Windage = *edit.Windage
		}
		if edit.Notes != nil {
			r.Notes = *edit.Notes
		}
		if edit.CleanBore != nil {
			r.CleanBore = *edit.CleanBore
		}
		if edit.ColdBore != nil {
			r.ColdBore = *edit.ColdBore
		}
		return nil
	}
	return ErrUnknownShot
}

// reassemble rebuilds the staged rows from the current source selections,
// preserving user-editable fields of existing rows by shot number. Returns
// how many shots did and did not receive a weather match.
// Caller must hold s.mu.
func (s *StagingSession) reassemble() (matched, unmatched int) {
	prev := make(map[int]StagingRow, len(s.rows))
	for _, r := range s.rows {
		prev[r.ShotNumber] = r
	}

	rows := make([]StagingRow, 0, len(s.shots))
	for _, shot := range s.shots {
		row := StagingRow{
			ShotNumber:    shot.ShotNumber,
			ShotTimestamp: shot.Timestamp,
			Speed:         shot.Speed,
			KineticEnergy: shot.KineticEnergy,
			PowerFactor:   shot.PowerFactor,
		}

		if s.rangeRec != nil {
			row.AzimuthDeg = s.rangeRec.AzimuthDeg
			row.ElevationAngleDeg = s.rangeRec.ElevationAngleDeg
		}

		if s.weather != nil {
			if r, ok := domain.MatchReading(shot.Timestamp, s.weather.Readings, s.tolerance); ok {
				row.Weather = &r
				matched++
			} else {
				unmatched++
			}
		}

		// User-entered values survive source changes; only the provenance
		// columns above are recomputed.
		if old, ok := prev[shot.ShotNumber]; ok {
			row.Distance = old.Distance
			row.Elevation = old.Elevation
			row.Windage = old.Windage
			row.Notes = old.Notes
			row.CleanBore = old.CleanBore
			row.ColdBore = old.ColdBore
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ShotNumber < rows[j].ShotNumber })
	s.rows = rows
	return matched, unmatched
}
