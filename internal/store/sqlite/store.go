// Package sqlite implements the persistence collaborator on a local SQLite
// database via the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/quietline/dopebook/internal/domain"
	"github.com/quietline/dopebook/internal/dope"
)

// Store is the SQLite-backed record store. It implements dope.SourceReader,
// dope.SessionWriter, and dope.SessionReader.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the database file, applies pragmas, and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Ping reports whether the database is reachable, for readiness checks.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// --- chronograph sessions ---

// CreateChronographSession writes an imported session and its shots.
func (s *Store) CreateChronographSession(ctx context.Context, session domain.ChronographSession, shots []domain.Shot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chrono_sessions (id, owner, bullet_type, bullet_weight_grains, session_timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.Owner, session.BulletType, session.BulletWeightGrains,
		session.SessionTimestamp, domain.FormatTimestamp(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert chronograph session: %w", err)
	}

	for _, shot := range shots {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO shots (id, session_id, shot_number, timestamp, speed, kinetic_energy, power_factor, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			shot.ID, session.ID, shot.ShotNumber, shot.Timestamp,
			shot.Speed, shot.KineticEnergy, shot.PowerFactor, nullText(shot.Notes),
		)
		if err != nil {
			return fmt.Errorf("insert shot %d: %w", shot.ShotNumber, err)
		}
	}
	return tx.Commit()
}

// GetChronographSession implements dope.SourceReader.
func (s *Store) GetChronographSession(ctx context.Context, id string) (domain.ChronographSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, bullet_type, bullet_weight_grains, session_timestamp, created_at
		FROM chrono_sessions WHERE id = ?`, id)

	var c domain.ChronographSession
	var createdAt string
	err := row.Scan(&c.ID, &c.Owner, &c.BulletType, &c.BulletWeightGrains, &c.SessionTimestamp, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ChronographSession{}, fmt.Errorf("chronograph session %s: %w", id, dope.ErrNotFound)
	}
	if err != nil {
		return domain.ChronographSession{}, fmt.Errorf("select chronograph session: %w", err)
	}
	c.CreatedAt, _ = domain.ParseTimestamp(createdAt)
	return c, nil
}

// ListChronographSessions returns an owner's sessions, newest first.
func (s *Store) ListChronographSessions(ctx context.Context, owner string) ([]domain.ChronographSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, bullet_type, bullet_weight_grains, session_timestamp, created_at
		FROM chrono_sessions WHERE owner = ? ORDER BY session_timestamp DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("select chronograph sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.ChronographSession
	for rows.Next() {
		var c domain.ChronographSession
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Owner, &c.BulletType, &c.BulletWeightGrains, &c.SessionTimestamp, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chronograph session: %w", err)
		}
		c.CreatedAt, _ = domain.ParseTimestamp(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListShots implements dope.SourceReader; rows come back in ascending
// shot-number order.
func (s *Store) ListShots(ctx context.Context, chronoSessionID string) ([]domain.Shot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, shot_number, timestamp, speed, kinetic_energy, power_factor, notes
		FROM shots WHERE session_id = ? ORDER BY shot_number ASC`, chronoSessionID)
	if err != nil {
		return nil, fmt.Errorf("select shots: %w", err)
	}
	defer rows.Close()

	var out []domain.Shot
	for rows.Next() {
		var shot domain.Shot
		var notes sql.NullString
		if err := rows.Scan(&shot.ID, &shot.SessionID, &shot.ShotNumber, &shot.Timestamp,
			&shot.Speed, &shot.KineticEnergy, &shot.PowerFactor, &notes); err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		shot.Notes = textPtr(notes)
		out = append(out, shot)
	}
	return out, rows.Err()
}

// --- weather ---

// CreateWeatherSource writes a weather source record.
func (s *Store) CreateWeatherSource(ctx context.Context, src domain.WeatherSource) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weather_sources (id, owner, name, created_at) VALUES (?, ?, ?, ?)`,
		src.ID, src.Owner, src.Name, domain.FormatTimestamp(src.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert weather source: %w", err)
	}
	return nil
}

// AddWeatherReadings bulk-inserts readings for a source.
func (s *Store) AddWeatherReadings(ctx context.Context, readings []domain.WeatherReading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, r := range readings {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO weather_readings
				(id, source_id, timestamp, temperature_c, pressure_hpa, humidity_pct,
				 wind_speed_mps, wind_direction_deg, density_altitude_m)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.SourceID, r.Timestamp,
			nullFloat(r.TemperatureC), nullFloat(r.PressureHPa), nullFloat(r.HumidityPct),
			nullFloat(r.WindSpeedMPS), nullFloat(r.WindDirectionDeg), nullFloat(r.DensityAltitudeM),
		)
		if err != nil {
			return fmt.Errorf("insert weather reading %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// ListWeatherReadings implements dope.SourceReader.
func (s *Store) ListWeatherReadings(ctx context.Context, weatherSourceID string) ([]domain.WeatherReading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, timestamp, temperature_c, pressure_hpa, humidity_pct,
		       wind_speed_mps, wind_direction_deg, density_altitude_m
		FROM weather_readings WHERE source_id = ?`, weatherSourceID)
	if err != nil {
		return nil, fmt.Errorf("select weather readings: %w", err)
	}
	defer rows.Close()

	var out []domain.WeatherReading
	for rows.Next() {
		var r domain.WeatherReading
		var temp, press, hum, wind, windDir, da sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.SourceID, &r.Timestamp, &temp, &press, &hum, &wind, &windDir, &da); err != nil {
			return nil, fmt.Errorf("scan weather reading: %w", err)
		}
		r.TemperatureC = floatPtr(temp)
		r.PressureHPa = floatPtr(press)
		r.HumidityPct = floatPtr(hum)
		r.WindSpeedMPS = floatPtr(wind)
		r.WindDirectionDeg = floatPtr(windDir)
		r.DensityAltitudeM = floatPtr(da)
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- reference data ---

// CreateRange writes a range record.
func (s *Store) CreateRange(ctx context.Context, r domain.RangeRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ranges
			(id, owner, name, description, azimuth_deg, elevation_angle_deg, distance_m,
			 firing_lat, firing_lon, firing_altitude_m, target_lat, target_lon, target_altitude_m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Owner, r.Name, nullText(r.Description),
		nullFloat(r.AzimuthDeg), nullFloat(r.ElevationAngleDeg), nullFloat(r.DistanceM),
		nullFloat(r.FiringLat), nullFloat(r.FiringLon), nullFloat(r.FiringAltitudeM),
		nullFloat(r.TargetLat), nullFloat(r.TargetLon), nullFloat(r.TargetAltitudeM),
	)
	if err != nil {
		return fmt.Errorf("insert range: %w", err)
	}
	return nil
}

// GetRange implements dope.SourceReader.
func (s *Store) GetRange(ctx context.Context, id string) (domain.RangeRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, name, description, azimuth_deg, elevation_angle_deg, distance_m,
		       firing_lat, firing_lon, firing_altitude_m, target_lat, target_lon, target_altitude_m
		FROM ranges WHERE id = ?`, id)

	var r domain.RangeRecord
	var desc sql.NullString
	var az, el, dist, fLat, fLon, fAlt, tLat, tLon, tAlt sql.NullFloat64
	err := row.Scan(&r.ID, &r.Owner, &r.Name, &desc, &az, &el, &dist, &fLat, &fLon, &fAlt, &tLat, &tLon, &tAlt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RangeRecord{}, fmt.Errorf("range %s: %w", id, dope.ErrNotFound)
	}
	if err != nil {
		return domain.RangeRecord{}, fmt.Errorf("select range: %w", err)
	}
	r.Description = textPtr(desc)
	r.AzimuthDeg = floatPtr(az)
	r.ElevationAngleDeg = floatPtr(el)
	r.DistanceM = floatPtr(dist)
	r.FiringLat = floatPtr(fLat)
	r.FiringLon = floatPtr(fLon)
	r.FiringAltitudeM = floatPtr(fAlt)
	r.TargetLat = floatPtr(tLat)
	r.TargetLon = floatPtr(tLon)
	r.TargetAltitudeM = floatPtr(tAlt)
	return r, nil
}

// CreateRifle writes a rifle record.
func (s *Store) CreateRifle(ctx context.Context, r domain.RifleRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rifles (id, owner, name, barrel_length_in, barrel_twist) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Owner, r.Name, nullFloat(r.BarrelLengthIn), nullText(r.BarrelTwist),
	)
	if err != nil {
		return fmt.Errorf("insert rifle: %w", err)
	}
	return nil
}

// GetRifle implements dope.SourceReader.
func (s *Store) GetRifle(ctx context.Context, id string) (domain.RifleRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, name, barrel_length_in, barrel_twist FROM rifles WHERE id = ?`, id)

	var r domain.RifleRecord
	var length sql.NullFloat64
	var twist sql.NullString
	err := row.Scan(&r.ID, &r.Owner, &r.Name, &length, &twist)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RifleRecord{}, fmt.Errorf("rifle %s: %w", id, dope.ErrNotFound)
	}
	if err != nil {
		return domain.RifleRecord{}, fmt.Errorf("select rifle: %w", err)
	}
	r.BarrelLengthIn = floatPtr(length)
	r.BarrelTwist = textPtr(twist)
	return r, nil
}

// CreateAmmo writes an ammunition record.
func (s *Store) CreateAmmo(ctx context.Context, a domain.AmmunitionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ammunition (id, owner, make, model, caliber, weight_grains) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Owner, nullText(a.Make), nullText(a.Model), nullText(a.Caliber), nullFloat(a.WeightGrains),
	)
	if err != nil {
		return fmt.Errorf("insert ammunition: %w", err)
	}
	return nil
}

// GetAmmo implements dope.SourceReader.
func (s *Store) GetAmmo(ctx context.Context, id string) (domain.AmmunitionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, make, model, caliber, weight_grains FROM ammunition WHERE id = ?`, id)

	var a domain.AmmunitionRecord
	var mk, model, caliber sql.NullString
	var weight sql.NullFloat64
	err := row.Scan(&a.ID, &a.Owner, &mk, &model, &caliber, &weight)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AmmunitionRecord{}, fmt.Errorf("ammunition %s: %w", id, dope.ErrNotFound)
	}
	if err != nil {
		return domain.AmmunitionRecord{}, fmt.Errorf("select ammunition: %w", err)
	}
	a.Make = textPtr(mk)
	a.Model = textPtr(model)
	a.Caliber = textPtr(caliber)
	a.WeightGrains = floatPtr(weight)
	return a, nil
}

// --- null helpers ---

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullText(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func textPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
