package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quietline/dopebook/internal/domain"
	"github.com/quietline/dopebook/internal/dope"
)

// GetDopeSessionByChrono implements dope.SessionWriter.
func (s *Store) GetDopeSessionByChrono(ctx context.Context, chronoSessionID string) (domain.DopeSession, error) {
	row := s.db.QueryRowContext(ctx, dopeSessionSelect+` WHERE chrono_session_id = ?`, chronoSessionID)
	sess, err := scanDopeSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DopeSession{}, fmt.Errorf("dope session for chronograph %s: %w", chronoSessionID, dope.ErrNotFound)
	}
	if err != nil {
		return domain.DopeSession{}, fmt.Errorf("select dope session: %w", err)
	}
	return sess, nil
}

// GetDopeSession implements dope.SessionReader.
func (s *Store) GetDopeSession(ctx context.Context, id string) (domain.DopeSession, error) {
	row := s.db.QueryRowContext(ctx, dopeSessionSelect+` WHERE id = ?`, id)
	sess, err := scanDopeSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DopeSession{}, fmt.Errorf("dope session %s: %w", id, dope.ErrNotFound)
	}
	if err != nil {
		return domain.DopeSession{}, fmt.Errorf("select dope session: %w", err)
	}
	return sess, nil
}

// ListDopeSessions returns an owner's DOPE sessions, newest first.
func (s *Store) ListDopeSessions(ctx context.Context, owner string) ([]domain.DopeSession, error) {
	rows, err := s.db.QueryContext(ctx, dopeSessionSelect+` WHERE owner = ? ORDER BY updated_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("select dope sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.DopeSession
	for rows.Next() {
		sess, err := scanDopeSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dope session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// SaveDopeSession implements dope.SessionWriter: header upsert and
// delete-then-insert of all detail rows inside one transaction, so a failed
// save can never strand a session without its details.
func (s *Store) SaveDopeSession(ctx context.Context, session domain.DopeSession, details []domain.DopeShotDetail) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := upsertDopeSession(ctx, tx, session); err != nil {
		return 0, err
	}
	count, err := replaceShotDetails(ctx, tx, session.ID, details)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

// DeleteDopeSession removes a session; detail rows cascade.
func (s *Store) DeleteDopeSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dope_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dope session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("dope session %s: %w", id, dope.ErrNotFound)
	}
	return nil
}

// ListShotDetails implements dope.SessionReader; ordered by shot number.
func (s *Store) ListShotDetails(ctx context.Context, dopeSessionID string) ([]domain.DopeShotDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dope_session_id, shot_number, shot_timestamp, speed, kinetic_energy, power_factor,
		       azimuth_deg, elevation_angle_deg, weather_timestamp, temperature_c, pressure_hpa,
		       humidity_pct, wind_speed_mps, wind_direction_deg, distance_m, elevation_adj,
		       windage_adj, clean_bore, cold_bore, notes
		FROM dope_shot_details WHERE dope_session_id = ? ORDER BY shot_number ASC`, dopeSessionID)
	if err != nil {
		return nil, fmt.Errorf("select shot details: %w", err)
	}
	defer rows.Close()

	var out []domain.DopeShotDetail
	for rows.Next() {
		var d domain.DopeShotDetail
		var az, el, temp, press, hum, wind, windDir, dist, elevAdj, windAdj sql.NullFloat64
		var weatherTS, notes sql.NullString
		if err := rows.Scan(&d.ID, &d.DopeSessionID, &d.ShotNumber, &d.ShotTimestamp,
			&d.Speed, &d.KineticEnergy, &d.PowerFactor,
			&az, &el, &weatherTS, &temp, &press, &hum, &wind, &windDir,
			&dist, &elevAdj, &windAdj, &d.CleanBore, &d.ColdBore, &notes); err != nil {
			return nil, fmt.Errorf("scan shot detail: %w", err)
		}
		d.AzimuthDeg = floatPtr(az)
		d.ElevationAngleDeg = floatPtr(el)
		d.WeatherTimestamp = textPtr(weatherTS)
		d.TemperatureC = floatPtr(temp)
		d.PressureHPa = floatPtr(press)
		d.HumidityPct = floatPtr(hum)
		d.WindSpeedMPS = floatPtr(wind)
		d.WindDirectionDeg = floatPtr(windDir)
		d.DistanceM = floatPtr(dist)
		d.ElevationAdj = floatPtr(elevAdj)
		d.WindageAdj = floatPtr(windAdj)
		d.Notes = textPtr(notes)
		out = append(out, d)
	}
	return out, rows.Err()
}

// upsertDopeSession writes the session header, preserving id and name on
// conflict with the existing chronograph-session reference.
func upsertDopeSession(ctx context.Context, tx *sql.Tx, sess domain.DopeSession) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO dope_sessions
			(id, owner, session_name, chrono_session_id, range_id, weather_source_id,
			 rifle_id, ammo_id, bullet_type, bullet_weight_grains, range_name,
			 range_distance_m, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			range_id = excluded.range_id,
			weather_source_id = excluded.weather_source_id,
			rifle_id = excluded.rifle_id,
			ammo_id = excluded.ammo_id,
			bullet_type = excluded.bullet_type,
			bullet_weight_grains = excluded.bullet_weight_grains,
			range_name = excluded.range_name,
			range_distance_m = excluded.range_distance_m,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		sess.ID, sess.Owner, sess.SessionName, sess.ChronoSessionID,
		nullText(sess.RangeID), nullText(sess.WeatherSourceID),
		nullText(sess.RifleID), nullText(sess.AmmoID),
		sess.BulletType, sess.BulletWeightGrains,
		nullText(sess.RangeName), nullFloat(sess.RangeDistanceM), nullText(sess.Notes),
		domain.FormatTimestamp(sess.CreatedAt), domain.FormatTimestamp(sess.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert dope session: %w", err)
	}
	return nil
}

// replaceShotDetails deletes all existing detail rows for the session and
// bulk-inserts the staged ones.
func replaceShotDetails(ctx context.Context, tx *sql.Tx, sessionID string, details []domain.DopeShotDetail) (int, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM dope_shot_details WHERE dope_session_id = ?`, sessionID); err != nil {
		return 0, fmt.Errorf("delete shot details: %w", err)
	}

	for _, d := range details {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dope_shot_details
				(id, dope_session_id, shot_number, shot_timestamp, speed, kinetic_energy,
				 power_factor, azimuth_deg, elevation_angle_deg, weather_timestamp,
				 temperature_c, pressure_hpa, humidity_pct, wind_speed_mps,
				 wind_direction_deg, distance_m, elevation_adj, windage_adj,
				 clean_bore, cold_bore, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, sessionID, d.ShotNumber, d.ShotTimestamp, d.Speed, d.KineticEnergy,
			d.PowerFactor, nullFloat(d.AzimuthDeg), nullFloat(d.ElevationAngleDeg),
			nullText(d.WeatherTimestamp), nullFloat(d.TemperatureC), nullFloat(d.PressureHPa),
			nullFloat(d.HumidityPct), nullFloat(d.WindSpeedMPS), nullFloat(d.WindDirectionDeg),
			nullFloat(d.DistanceM), nullFloat(d.ElevationAdj), nullFloat(d.WindageAdj),
			d.CleanBore, d.ColdBore, nullText(d.Notes),
		)
		if err != nil {
			return 0, fmt.Errorf("insert shot detail %d: %w", d.ShotNumber, err)
		}
	}
	return len(details), nil
}

const dopeSessionSelect = `
	SELECT id, owner, session_name, chrono_session_id, range_id, weather_source_id,
	       rifle_id, ammo_id, bullet_type, bullet_weight_grains, range_name,
	       range_distance_m, notes, created_at, updated_at
	FROM dope_sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDopeSession(row rowScanner) (domain.DopeSession, error) {
	var sess domain.DopeSession
	var rangeID, weatherID, rifleID, ammoID, rangeName, notes sql.NullString
	var rangeDist sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&sess.ID, &sess.Owner, &sess.SessionName, &sess.ChronoSessionID,
		&rangeID, &weatherID, &rifleID, &ammoID,
		&sess.BulletType, &sess.BulletWeightGrains,
		&rangeName, &rangeDist, &notes, &createdAt, &updatedAt)
	if err != nil {
		return domain.DopeSession{}, err
	}
	sess.RangeID = textPtr(rangeID)
	sess.WeatherSourceID = textPtr(weatherID)
	sess.RifleID = textPtr(rifleID)
	sess.AmmoID = textPtr(ammoID)
	sess.RangeName = textPtr(rangeName)
	sess.RangeDistanceM = floatPtr(rangeDist)
	sess.Notes = textPtr(notes)
	sess.CreatedAt, _ = domain.ParseTimestamp(createdAt)
	sess.UpdatedAt, _ = domain.ParseTimestamp(updatedAt)
	return sess, nil
}
