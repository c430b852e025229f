package domain

import "time"

// ChronographSession is one recorded string of fire. Immutable once written
// by the chronograph import subsystem.
type ChronographSession struct {
	ID                 string    `json:"id"`
	Owner              string    `json:"owner"`
	BulletType         string    `json:"bullet_type"`
	BulletWeightGrains float64   `json:"bullet_weight_grains"`
	SessionTimestamp   string    `json:"session_timestamp"` // ISO-8601, see ParseTimestamp
	CreatedAt          time.Time `json:"created_at"`
}

// Shot is one chronograph measurement within a session. ShotNumber is unique
// within the session and ascending.
type Shot struct {
	ID            string  `json:"id"`
	SessionID     string  `json:"session_id"`
	ShotNumber    int     `json:"shot_number"`
	Timestamp     string  `json:"timestamp"` // raw ISO-8601 from the export, may be offset-naive
	Speed         float64 `json:"speed"`     // ft/s
	KineticEnergy float64 `json:"kinetic_energy"`
	PowerFactor   float64 `json:"power_factor"`
	Notes         *string `json:"notes,omitempty"`
}

// WeatherSource is a device or manual log producing timestamped readings.
type WeatherSource struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WeatherReading is one environmental measurement. Optional fields are nil
// when the meter did not report them.
type WeatherReading struct {
	ID               string   `json:"id"`
	SourceID         string   `json:"source_id"`
	Timestamp        string   `json:"timestamp"` // raw ISO-8601, may be offset-naive
	TemperatureC     *float64 `json:"temperature_c,omitempty"`
	PressureHPa      *float64 `json:"pressure_hpa,omitempty"`
	HumidityPct      *float64 `json:"humidity_pct,omitempty"`
	WindSpeedMPS     *float64 `json:"wind_speed_mps,omitempty"`
	WindDirectionDeg *float64 `json:"wind_direction_deg,omitempty"`
	DensityAltitudeM *float64 `json:"density_altitude_m,omitempty"`
}

// RangeRecord describes a firing position and target. Geometry fields are
// derived from the coordinate pairs when both are present; see RangeGeometry.
type RangeRecord struct {
	ID                string   `json:"id"`
	Owner             string   `json:"owner"`
	Name              string   `json:"name"`
	Description       *string  `json:"description,omitempty"`
	AzimuthDeg        *float64 `json:"azimuth_deg,omitempty"`
	ElevationAngleDeg *float64 `json:"elevation_angle_deg,omitempty"`
	DistanceM         *float64 `json:"distance_m,omitempty"`
	FiringLat         *float64 `json:"firing_lat,omitempty"`
	FiringLon         *float64 `json:"firing_lon,omitempty"`
	FiringAltitudeM   *float64 `json:"firing_altitude_m,omitempty"`
	TargetLat         *float64 `json:"target_lat,omitempty"`
	TargetLon         *float64 `json:"target_lon,omitempty"`
	TargetAltitudeM   *float64 `json:"target_altitude_m,omitempty"`
}

// RifleRecord is optional reference data for the rifle used.
type RifleRecord struct {
	ID             string   `json:"id"`
	Owner          string   `json:"owner"`
	Name           string   `json:"name"`
	BarrelLengthIn *float64 `json:"barrel_length_in,omitempty"`
	BarrelTwist    *string  `json:"barrel_twist,omitempty"` // e.g. "1:8"
}

// AmmunitionRecord is optional reference data for the ammunition used.
type AmmunitionRecord struct {
	ID           string   `json:"id"`
	Owner        string   `json:"owner"`
	Make         *string  `json:"make,omitempty"`
	Model        *string  `json:"model,omitempty"`
	Caliber      *string  `json:"caliber,omitempty"`
	WeightGrains *float64 `json:"weight_grains,omitempty"`
}

// DopeSession is the durable merged artifact: one per chronograph session,
// referencing (never owning) the source records it was assembled from.
type DopeSession struct {
	ID                 string    `json:"id"`
	Owner              string    `json:"owner"`
	SessionName        string    `json:"session_name"` // immutable after first save
	ChronoSessionID    string    `json:"chrono_session_id"`
	RangeID            *string   `json:"range_id,omitempty"`
	WeatherSourceID    *string   `json:"weather_source_id,omitempty"`
	RifleID            *string   `json:"rifle_id,omitempty"`
	AmmoID             *string   `json:"ammo_id,omitempty"`
	BulletType         string    `json:"bullet_type"` // mirrored from the chronograph session
	BulletWeightGrains float64   `json:"bullet_weight_grains"`
	RangeName          *string   `json:"range_name,omitempty"`
	RangeDistanceM     *float64  `json:"range_distance_m,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DopeShotDetail is one saved row per original shot, owned by exactly one
// DopeSession. Chronograph, range, and weather fields are read-only copies
// made at save time; the remaining fields are user-entered. Detail rows are
// fully replaced on every save, never patched in place.
type DopeShotDetail struct {
	ID            string  `json:"id"`
	DopeSessionID string  `json:"dope_session_id"`
	ShotNumber    int     `json:"shot_number"`
	ShotTimestamp string  `json:"shot_timestamp"`
	Speed         float64 `json:"speed"`
	KineticEnergy float64 `json:"kinetic_energy"`
	PowerFactor   float64 `json:"power_factor"`

	// Range copy-in.
	AzimuthDeg        *float64 `json:"azimuth_deg,omitempty"`
	ElevationAngleDeg *float64 `json:"elevation_angle_deg,omitempty"`

	// Matched weather copy-in. Nil when no source was selected or no reading
	// fell inside the tolerance window.
	WeatherTimestamp *string  `json:"weather_timestamp,omitempty"`
	TemperatureC     *float64 `json:"temperature_c,omitempty"`
	PressureHPa      *float64 `json:"pressure_hpa,omitempty"`
	HumidityPct      *float64 `json:"humidity_pct,omitempty"`
	WindSpeedMPS     *float64 `json:"wind_speed_mps,omitempty"`
	WindDirectionDeg *float64 `json:"wind_direction_deg,omitempty"`

	// User-entered fields, coerced from staging text at save time.
	DistanceM    *float64 `json:"distance_m,omitempty"` // distinct from the range's surveyed distance
	ElevationAdj *float64 `json:"elevation_adj,omitempty"`
	WindageAdj   *float64 `json:"windage_adj,omitempty"`
	CleanBore    bool     `json:"clean_bore"`
	ColdBore     bool     `json:"cold_bore"`
	Notes        *string  `json:"notes,omitempty"`
}
