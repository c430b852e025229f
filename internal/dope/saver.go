package dope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quietline/dopebook/internal/domain"
	"github.com/quietline/dopebook/internal/observability"
)

// SaveResult reports the outcome of persisting a staging session.
type SaveResult struct {
	SessionID  string `json:"session_id"`
	DetailRows int    `json:"detail_rows"`
	Created    bool   `json:"created"`
}

// Saver persists staging sessions, enforcing the one-DOPE-session-per-
// chronograph-session invariant and replacing detail rows wholesale on
// every save.
type Saver struct {
	store   SessionWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSaver creates a Saver.
func NewSaver(store SessionWriter, logger *slog.Logger, metrics *observability.Metrics) *Saver {
	return &Saver{store: store, logger: logger, metrics: metrics}
}

// Save persists a staging session: it resolves whether a DOPE session
// already exists for the chronograph session (update keeps its id and name,
// create derives a name from the bullet and the current time), then writes
// the header and replaces every detail row in one transaction. Saving the
// same chronograph session twice always updates the first session.
func (sv *Saver) Save(ctx context.Context, s *StagingSession) (SaveResult, error) {
	start := time.Now()

	rows := s.Rows()
	if len(rows) == 0 {
		return SaveResult{}, ErrNoStagedRows
	}

	s.mu.Lock()
	header := sv.buildHeader(s)
	details := buildDetails(header.ID, rows)
	s.mu.Unlock()

	existing, err := sv.store.GetDopeSessionByChrono(ctx, s.chrono.ID)
	switch {
	case err == nil:
		// Update path: the session keeps its identity and name forever.
		header.ID = existing.ID
		header.SessionName = existing.SessionName
		header.CreatedAt = existing.CreatedAt
		for i := range details {
			details[i].DopeSessionID = existing.ID
		}
	case errors.Is(err, ErrNotFound):
		// Create path: header already carries a fresh id and derived name.
	default:
		sv.metrics.Saves.WithLabelValues("error").Inc()
		return SaveResult{}, fmt.Errorf("resolve existing dope session: %w", err)
	}
	created := err != nil

	count, err := sv.store.SaveDopeSession(ctx, header, details)
	if err != nil {
		sv.metrics.Saves.WithLabelValues("error").Inc()
		return SaveResult{}, fmt.Errorf("save dope session %s: %w", header.ID, err)
	}
	if count != len(details) {
		// The transactional store writes all or nothing, so this indicates a
		// store bug rather than a partial write.
		sv.metrics.Saves.WithLabelValues("error").Inc()
		return SaveResult{}, fmt.Errorf("wrote %d of %d detail rows for session %s", count, len(details), header.ID)
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	sv.metrics.Saves.WithLabelValues(outcome).Inc()
	sv.metrics.SaveDuration.Observe(time.Since(start).Seconds())
	sv.metrics.DetailRowsReplaced.Add(float64(count))
	sv.logger.Info("dope session saved",
		"dope_session_id", header.ID,
		"chrono_session_id", s.chrono.ID,
		"detail_rows", count,
		"created", created,
	)

	return SaveResult{SessionID: header.ID, DetailRows: count, Created: created}, nil
}

// buildHeader assembles the session header for the create path; the update
// path overwrites id, name, and creation time afterwards. Caller holds s.mu.
func (sv *Saver) buildHeader(s *StagingSession) domain.DopeSession {
	now := domain.Clock().Now().UTC()

	header := domain.DopeSession{
		ID:                 uuid.NewString(),
		Owner:              s.owner,
		SessionName:        deriveSessionName(s.chrono, now),
		ChronoSessionID:    s.chrono.ID,
		BulletType:         s.chrono.BulletType,
		BulletWeightGrains: s.chrono.BulletWeightGrains,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if s.rangeRec != nil {
		header.RangeID = &s.rangeRec.ID
		header.RangeName = &s.rangeRec.Name
		header.RangeDistanceM = s.rangeRec.DistanceM
	}
	if s.weather != nil {
		header.WeatherSourceID = &s.weather.SourceID
	}
	if s.rifle != nil {
		header.RifleID = &s.rifle.ID
	}
	if s.ammo != nil {
		header.AmmoID = &s.ammo.ID
	}
	return header
}

// deriveSessionName builds the immutable first-save name from the bullet
// and creation time, e.g. "Berger Hybrid 185gr 2024-04-26 10:15".
func deriveSessionName(chrono domain.ChronographSession, now time.Time) string {
	return fmt.Sprintf("%s %sgr %s",
		chrono.BulletType,
		trimFloat(chrono.BulletWeightGrains),
		now.Format("2006-01-02 15:04"),
	)
}

// buildDetails converts staged rows into detail records, coercing the
// user-entered text fields.
func buildDetails(sessionID string, rows []StagingRow) []domain.DopeShotDetail {
	details := make([]domain.DopeShotDetail, 0, len(rows))
	for _, row := range rows {
		d := domain.DopeShotDetail{
			ID:                uuid.NewString(),
			DopeSessionID:     sessionID,
			ShotNumber:        row.ShotNumber,
			ShotTimestamp:     row.ShotTimestamp,
			Speed:             row.Speed,
			KineticEnergy:     row.KineticEnergy,
			PowerFactor:       row.PowerFactor,
			AzimuthDeg:        row.AzimuthDeg,
			ElevationAngleDeg: row.ElevationAngleDeg,
			DistanceM:         coerceFloat(row.Distance),
			ElevationAdj:      coerceFloat(row.Elevation),
			WindageAdj:        coerceFloat(row.Windage),
			CleanBore:         row.CleanBore,
			ColdBore:          row.ColdBore,
			Notes:             coerceText(row.Notes),
		}
		if w := row.Weather; w != nil {
			d.WeatherTimestamp = &w.Timestamp
			d.TemperatureC = w.TemperatureC
			d.PressureHPa = w.PressureHPa
			d.HumidityPct = w.HumidityPct
			d.WindSpeedMPS = w.WindSpeedMPS
			d.WindDirectionDeg = w.WindDirectionDeg
		}
		details = append(details, d)
	}
	return details
}
