package dope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietline/dopebook/internal/dope"
)

func TestAssembler_Begin(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)

	t.Run("stages one row per shot in shot order", func(t *testing.T) {
		s, err := a.Begin(context.Background(), testChronoID)
		require.NoError(t, err)

		rows := s.Rows()
		require.Len(t, rows, 3)
		for i, row := range rows {
			assert.Equal(t, i+1, row.ShotNumber)
			assert.Nil(t, row.Weather, "no weather source selected yet")
			assert.Nil(t, row.AzimuthDeg, "no range selected yet")
			assert.Empty(t, row.Distance)
			assert.Empty(t, row.Elevation)
			assert.Empty(t, row.Windage)
		}
		assert.Equal(t, 2601.0, rows[0].Speed)
		assert.Equal(t, "shooter-1", s.Owner())
	})

	t.Run("distinct handles per Begin", func(t *testing.T) {
		s1, err := a.Begin(context.Background(), testChronoID)
		require.NoError(t, err)
		s2, err := a.Begin(context.Background(), testChronoID)
		require.NoError(t, err)
		assert.NotEqual(t, s1.ID(), s2.ID())

		// Edits through one handle are invisible through the other.
		require.NoError(t, s1.EditRow(1, dope.RowEdit{Distance: ptr("800")}))
		assert.Empty(t, s2.Rows()[0].Distance)
	})

	t.Run("zero shots is a validation failure", func(t *testing.T) {
		f.chronos["empty"] = f.chronos[testChronoID]
		_, err := a.Begin(context.Background(), "empty")
		require.ErrorIs(t, err, dope.ErrNoShots)
	})

	t.Run("unknown chronograph session", func(t *testing.T) {
		_, err := a.Begin(context.Background(), "nope")
		require.ErrorIs(t, err, dope.ErrNotFound)
		assert.Contains(t, err.Error(), "load chronograph session")
	})
}

func TestAssembler_WeatherMerge(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)

	s, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)
	require.NoError(t, a.SelectWeatherSource(context.Background(), s, testWeatherID))

	rows := s.Rows()
	require.Len(t, rows, 3)

	// Every shot sits within 30 minutes of the 10:04 reading, which is the
	// nearest candidate for all three.
	for i, row := range rows {
		require.NotNil(t, row.Weather, "row %d", i)
		assert.Equal(t, "r-1004", row.Weather.ID, "row %d", i)
		assert.Equal(t, 24.0, *row.Weather.TemperatureC, "row %d", i)
	}

	t.Run("clearing the source empties weather fields", func(t *testing.T) {
		a.ClearWeatherSource(s)
		for _, row := range s.Rows() {
			assert.Nil(t, row.Weather)
		}
	})
}

func TestAssembler_RangeMerge(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)

	s, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)
	require.NoError(t, a.SelectRange(context.Background(), s, testRangeID))

	for _, row := range s.Rows() {
		require.NotNil(t, row.AzimuthDeg)
		assert.Equal(t, 142.5, *row.AzimuthDeg)
		require.NotNil(t, row.ElevationAngleDeg)
		assert.Equal(t, -1.8, *row.ElevationAngleDeg)
	}

	a.ClearRange(s)
	for _, row := range s.Rows() {
		assert.Nil(t, row.AzimuthDeg)
	}
}

func TestAssembler_SourceCombinations(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)

	tests := []struct {
		name                 string
		useRange, useWeather bool
	}{
		{"no sources", false, false},
		{"range only", true, false},
		{"weather only", false, true},
		{"range and weather", true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := a.Begin(context.Background(), testChronoID)
			require.NoError(t, err)
			if tc.useRange {
				require.NoError(t, a.SelectRange(context.Background(), s, testRangeID))
			}
			if tc.useWeather {
				require.NoError(t, a.SelectWeatherSource(context.Background(), s, testWeatherID))
			}
			require.NoError(t, a.SelectRifle(context.Background(), s, testRifleID))
			require.NoError(t, a.SelectAmmo(context.Background(), s, testAmmoID))

			rows := s.Rows()
			require.Len(t, rows, 3, "row count always equals shot count")
			for _, row := range rows {
				assert.Equal(t, tc.useRange, row.AzimuthDeg != nil)
				assert.Equal(t, tc.useWeather, row.Weather != nil)
			}

			sel := s.Sources()
			assert.Equal(t, testChronoID, sel.ChronoSessionID)
			assert.Equal(t, tc.useRange, sel.RangeID != nil)
			assert.Equal(t, tc.useWeather, sel.WeatherSourceID != nil)
			require.NotNil(t, sel.RifleID)
			require.NotNil(t, sel.AmmoID)
		})
	}
}

func TestAssembler_EditsSurviveReassembly(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)

	s, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)

	require.NoError(t, s.EditRow(2, dope.RowEdit{
		Distance:  ptr("823"),
		Elevation: ptr("6.4"),
		Windage:   ptr("0.3"),
		Notes:     ptr("slight push from the left"),
		ColdBore:  ptr(true),
	}))

	// Selecting sources re-runs the merge; user-entered fields must survive.
	require.NoError(t, a.SelectWeatherSource(context.Background(), s, testWeatherID))
	require.NoError(t, a.SelectRange(context.Background(), s, testRangeID))
	a.ClearRange(s)

	row := s.Rows()[1]
	assert.Equal(t, "823", row.Distance)
	assert.Equal(t, "6.4", row.Elevation)
	assert.Equal(t, "0.3", row.Windage)
	assert.Equal(t, "slight push from the left", row.Notes)
	assert.True(t, row.ColdBore)
	assert.False(t, row.CleanBore)
	require.NotNil(t, row.Weather, "provenance fields still recomputed")
}

func TestStagingSession_EditRow(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)

	s, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)

	t.Run("unknown shot number", func(t *testing.T) {
		err := s.EditRow(99, dope.RowEdit{Distance: ptr("800")})
		require.ErrorIs(t, err, dope.ErrUnknownShot)
	})

	t.Run("nil members leave values untouched", func(t *testing.T) {
		require.NoError(t, s.EditRow(1, dope.RowEdit{Distance: ptr("700"), Notes: ptr("first")}))
		require.NoError(t, s.EditRow(1, dope.RowEdit{Windage: ptr("0.1")}))

		row := s.Rows()[0]
		assert.Equal(t, "700", row.Distance)
		assert.Equal(t, "first", row.Notes)
		assert.Equal(t, "0.1", row.Windage)
	})
}
