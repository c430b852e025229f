package domain

import "time"

// DefaultMatchTolerance is the widest shot-to-reading gap considered a match.
const DefaultMatchTolerance = 30 * time.Minute

// MatchReading returns the weather reading whose timestamp is nearest to
// shotTime, provided the absolute gap is strictly less than tolerance.
// The second return is false when no reading qualifies.
//
// Readings with missing or unparseable timestamps are skipped; an empty or
// unparseable shotTime yields no match. The function never fails; a bad
// timestamp anywhere must not abort the larger session assembly. On equal
// gaps the first reading encountered wins; duplicate reading timestamps are
// not expected in meter exports.
func MatchReading(shotTime string, readings []WeatherReading, tolerance time.Duration) (WeatherReading, bool) {
	shot, err := ParseTimestamp(shotTime)
	if err != nil {
		return WeatherReading{}, false
	}

	var (
		best     WeatherReading
		bestDiff time.Duration
		found    bool
	)
	for _, r := range readings {
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			continue
		}
		diff := shot.Sub(ts)
		if diff < 0 {
			diff = -diff
		}
		if diff >= tolerance {
			continue
		}
		if !found || diff < bestDiff {
			best = r
			bestDiff = diff
			found = true
		}
	}
	return best, found
}
