// Package domain models chronograph, weather, and DOPE (Data On Previous
// Engagements) records for precision-rifle load development.
//
// # Data Sources
//
// Chronograph sessions originate from radar chronograph exports (one session
// per string of fire, one row per shot). The import subsystem writes sessions
// and their shots verbatim; this package treats them as immutable provenance.
//
// Weather readings come from handheld weather meters or manual logs. A
// weather source owns many readings; readings are an unordered set compared
// only by timestamp.
//
// # Timestamp Conventions
//
// All timestamps are ISO-8601 text. Chronograph exports and some weather
// meters emit offset-naive values ("2024-04-26T10:05:00"); these are assumed
// to be UTC. Offset-aware values are normalized to UTC on parse. See
// [ParseTimestamp].
//
// # Shot-to-Reading Matching
//
// A shot is matched to the weather reading whose timestamp is nearest to the
// shot's, provided the gap is strictly inside the tolerance window (default
// 30 minutes). Matching is a pure per-shot linear scan; readings with
// unparseable timestamps are skipped rather than failing the merge. See
// [MatchReading].
//
// # Units
//
// Stored units follow the chronograph and meter conventions: shot speed in
// ft/s, kinetic energy in ft·lbf, bullet weight in grains, temperature in
// °C, pressure in hPa, distances in meters. Conversion helpers for display
// live in units.go.
//
// # Derived Ballistics Fields
//
// Kinetic energy and power factor are derived at import time:
//
//	KE (ft·lbf) = grains × fps² / 450240  (½mv² with unit constants folded)
//	PF          = grains × fps / 1000
//
// # Range Geometry
//
// Range records may carry firing-point and target coordinates. Distance,
// azimuth, and elevation angle are derived with great-circle math in geo.go,
// matching what the measure-on-map flow produces.
package domain
