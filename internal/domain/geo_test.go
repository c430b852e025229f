package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeGeometry(t *testing.T) {
	t.Run("one kilometer due north", func(t *testing.T) {
		firing := Point{Lat: 51.0, Lon: 13.0}
		// ~0.008993° of latitude is 1000 m on the reference sphere.
		target := Point{Lat: 51.008993, Lon: 13.0}

		g := RangeGeometry(firing, target)
		assert.InDelta(t, 1000, g.DistanceM, 1)
		assert.InDelta(t, 0, g.AzimuthDeg, 0.1)
		assert.InDelta(t, 0, g.ElevationAngleDeg, 0.01)
	})

	t.Run("due east bearing", func(t *testing.T) {
		firing := Point{Lat: 0, Lon: 13.0}
		target := Point{Lat: 0, Lon: 13.01}

		g := RangeGeometry(firing, target)
		assert.InDelta(t, 90, g.AzimuthDeg, 0.1)
	})

	t.Run("uphill target", func(t *testing.T) {
		firing := Point{Lat: 51.0, Lon: 13.0, AltitudeM: 100}
		target := Point{Lat: 51.008993, Lon: 13.0, AltitudeM: 200}

		g := RangeGeometry(firing, target)
		// 100 m rise over 1000 m ground: ~5.71° and a slightly longer slant.
		assert.InDelta(t, 5.71, g.ElevationAngleDeg, 0.05)
		assert.InDelta(t, 1005, g.DistanceM, 1)
	})

	t.Run("downhill target is negative", func(t *testing.T) {
		firing := Point{Lat: 51.0, Lon: 13.0, AltitudeM: 300}
		target := Point{Lat: 51.008993, Lon: 13.0, AltitudeM: 200}

		g := RangeGeometry(firing, target)
		assert.Negative(t, g.ElevationAngleDeg)
	})

	t.Run("identical points", func(t *testing.T) {
		p := Point{Lat: 51.0, Lon: 13.0, AltitudeM: 100}
		g := RangeGeometry(p, p)
		assert.Zero(t, g.DistanceM)
		assert.Zero(t, g.ElevationAngleDeg)
	})
}
