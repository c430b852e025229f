package sqlite

// schema creates all tables on open. The dope_sessions unique index enforces
// the one-DOPE-session-per-chronograph-session invariant at the storage
// layer; detail rows cascade with their session.
const schema = `
CREATE TABLE IF NOT EXISTS chrono_sessions (
	id                    TEXT PRIMARY KEY,
	owner                 TEXT NOT NULL,
	bullet_type           TEXT NOT NULL,
	bullet_weight_grains  REAL NOT NULL,
	session_timestamp     TEXT NOT NULL,
	created_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS shots (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL REFERENCES chrono_sessions(id) ON DELETE CASCADE,
	shot_number    INTEGER NOT NULL,
	timestamp      TEXT NOT NULL,
	speed          REAL NOT NULL,
	kinetic_energy REAL NOT NULL,
	power_factor   REAL NOT NULL,
	notes          TEXT,
	UNIQUE (session_id, shot_number)
);

CREATE TABLE IF NOT EXISTS weather_sources (
	id         TEXT PRIMARY KEY,
	owner      TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weather_readings (
	id                 TEXT PRIMARY KEY,
	source_id          TEXT NOT NULL REFERENCES weather_sources(id) ON DELETE CASCADE,
	timestamp          TEXT NOT NULL,
	temperature_c      REAL,
	pressure_hpa       REAL,
	humidity_pct       REAL,
	wind_speed_mps     REAL,
	wind_direction_deg REAL,
	density_altitude_m REAL
);

CREATE INDEX IF NOT EXISTS idx_weather_readings_source ON weather_readings(source_id);

CREATE TABLE IF NOT EXISTS ranges (
	id                  TEXT PRIMARY KEY,
	owner               TEXT NOT NULL,
	name                TEXT NOT NULL,
	description         TEXT,
	azimuth_deg         REAL,
	elevation_angle_deg REAL,
	distance_m          REAL,
	firing_lat          REAL,
	firing_lon          REAL,
	firing_altitude_m   REAL,
	target_lat          REAL,
	target_lon          REAL,
	target_altitude_m   REAL
);

CREATE TABLE IF NOT EXISTS rifles (
	id               TEXT PRIMARY KEY,
	owner            TEXT NOT NULL,
	name             TEXT NOT NULL,
	barrel_length_in REAL,
	barrel_twist     TEXT
);

CREATE TABLE IF NOT EXISTS ammunition (
	id            TEXT PRIMARY KEY,
	owner         TEXT NOT NULL,
	make          TEXT,
	model         TEXT,
	caliber       TEXT,
	weight_grains REAL
);

CREATE TABLE IF NOT EXISTS dope_sessions (
	id                   TEXT PRIMARY KEY,
	owner                TEXT NOT NULL,
	session_name         TEXT NOT NULL,
	chrono_session_id    TEXT NOT NULL UNIQUE REFERENCES chrono_sessions(id),
	range_id             TEXT REFERENCES ranges(id),
	weather_source_id    TEXT REFERENCES weather_sources(id),
	rifle_id             TEXT REFERENCES rifles(id),
	ammo_id              TEXT REFERENCES ammunition(id),
	bullet_type          TEXT NOT NULL,
	bullet_weight_grains REAL NOT NULL,
	range_name           TEXT,
	range_distance_m     REAL,
	notes                TEXT,
	created_at           TEXT NOT NULL,
	updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dope_shot_details (
	id                  TEXT PRIMARY KEY,
	dope_session_id     TEXT NOT NULL REFERENCES dope_sessions(id) ON DELETE CASCADE,
	shot_number         INTEGER NOT NULL,
	shot_timestamp      TEXT NOT NULL,
	speed               REAL NOT NULL,
	kinetic_energy      REAL NOT NULL,
	power_factor        REAL NOT NULL,
	azimuth_deg         REAL,
	elevation_angle_deg REAL,
	weather_timestamp   TEXT,
	temperature_c       REAL,
	pressure_hpa        REAL,
	humidity_pct        REAL,
	wind_speed_mps      REAL,
	wind_direction_deg  REAL,
	distance_m          REAL,
	elevation_adj       REAL,
	windage_adj         REAL,
	clean_bore          INTEGER NOT NULL DEFAULT 0,
	cold_bore           INTEGER NOT NULL DEFAULT 0,
	notes               TEXT,
	UNIQUE (dope_session_id, shot_number)
);
`
