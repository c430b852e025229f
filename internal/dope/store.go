package dope

import (
	"context"

	"github.com/quietline/dopebook/internal/domain"
)

// SourceReader provides the reference-data reads the assembler needs.
// Implementations return ErrNotFound for missing identifiers.
type SourceReader interface {
	GetChronographSession(ctx context.Context, id string) (domain.ChronographSession, error)
	// ListShots returns the session's shots ordered by ascending shot number.
	ListShots(ctx context.Context, chronoSessionID string) ([]domain.Shot, error)
	ListWeatherReadings(ctx context.Context, weatherSourceID string) ([]domain.WeatherReading, error)
	GetRange(ctx context.Context, id string) (domain.RangeRecord, error)
	GetRifle(ctx context.Context, id string) (domain.RifleRecord, error)
	GetAmmo(ctx context.Context, id string) (domain.AmmunitionRecord, error)
}

// SessionWriter persists DOPE sessions. SaveDopeSession upserts the header
// and replaces all detail rows in one all-or-nothing boundary: a failed save
// leaves the previous rows untouched.
type SessionWriter interface {
	// GetDopeSessionByChrono resolves the at-most-one DOPE session referencing
	// a chronograph session. Returns ErrNotFound when none exists yet.
	GetDopeSessionByChrono(ctx context.Context, chronoSessionID string) (domain.DopeSession, error)
	// SaveDopeSession writes the header and details atomically and returns
	// the number of detail rows written.
	SaveDopeSession(ctx context.Context, session domain.DopeSession, details []domain.DopeShotDetail) (int, error)
}

// SessionReader provides the reads needed to restage a saved session.
type SessionReader interface {
	GetDopeSession(ctx context.Context, id string) (domain.DopeSession, error)
	// ListShotDetails returns a session's detail rows ordered by shot number.
	ListShotDetails(ctx context.Context, dopeSessionID string) ([]domain.DopeShotDetail, error)
}
