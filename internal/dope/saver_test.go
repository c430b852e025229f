package dope_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietline/dopebook/internal/domain"
	"github.com/quietline/dopebook/internal/dope"
)

func TestSaver_CreatePath(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 26, 10, 15, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)
	sv := newTestSaver(f)

	s, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)
	require.NoError(t, a.SelectWeatherSource(context.Background(), s, testWeatherID))
	require.NoError(t, a.SelectRange(context.Background(), s, testRangeID))
	require.NoError(t, s.EditRow(1, dope.RowEdit{Distance: ptr("823"), Elevation: ptr("6.4")}))

	res, err := sv.Save(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 3, res.DetailRows)
	require.NotEmpty(t, res.SessionID)

	saved := f.dopeByID[res.SessionID]
	assert.Equal(t, "Berger Hybrid 185gr 2024-04-26 10:15", saved.SessionName)
	assert.Equal(t, "shooter-1", saved.Owner)
	assert.Equal(t, testChronoID, saved.ChronoSessionID)
	assert.Equal(t, "Berger Hybrid", saved.BulletType)
	assert.Equal(t, 185.0, saved.BulletWeightGrains)
	require.NotNil(t, saved.RangeID)
	assert.Equal(t, testRangeID, *saved.RangeID)
	require.NotNil(t, saved.RangeName)
	assert.Equal(t, "Miller Flats 900", *saved.RangeName)
	require.NotNil(t, saved.WeatherSourceID)
	assert.Equal(t, testWeatherID, *saved.WeatherSourceID)

	details := f.details[res.SessionID]
	require.Len(t, details, 3)
	first := details[0]
	assert.Equal(t, 1, first.ShotNumber)
	require.NotNil(t, first.DistanceM)
	assert.Equal(t, 823.0, *first.DistanceM)
	require.NotNil(t, first.ElevationAdj)
	assert.Equal(t, 6.4, *first.ElevationAdj)
	require.NotNil(t, first.TemperatureC)
	assert.Equal(t, 24.0, *first.TemperatureC)
	require.NotNil(t, first.AzimuthDeg)
	assert.Equal(t, 142.5, *first.AzimuthDeg)
	assert.Nil(t, details[1].DistanceM, "unedited rows store NULL")
}

func TestSaver_UpdatePathKeepsIdentity(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)
	sv := newTestSaver(f)

	s, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)

	first, err := sv.Save(context.Background(), s)
	require.NoError(t, err)
	require.True(t, first.Created)
	firstName := f.dopeByID[first.SessionID].SessionName

	// Stage again from scratch and save: same chronograph session, so the
	// existing DOPE session is updated, never duplicated.
	s2, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)
	require.NoError(t, a.SelectWeatherSource(context.Background(), s2, testWeatherID))

	second, err := sv.Save(context.Background(), s2)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, firstName, f.dopeByID[second.SessionID].SessionName, "name is immutable after first save")
	assert.Len(t, f.dopeByID, 1)

	// Detail rows were fully replaced: the refreshed rows carry weather.
	details := f.details[second.SessionID]
	require.Len(t, details, 3)
	require.NotNil(t, details[0].WeatherTimestamp)
}

func TestSaver_Failures(t *testing.T) {
	t.Run("empty staging session", func(t *testing.T) {
		sv := newTestSaver(newFakeStore())
		_, err := sv.Save(context.Background(), &dope.StagingSession{})
		require.ErrorIs(t, err, dope.ErrNoStagedRows)
	})

	t.Run("resolve failure surfaces with context", func(t *testing.T) {
		f := newFakeStore()
		seedFixtures(f)
		f.resolveErr = errors.New("connection refused")
		a := newTestAssembler(f)
		sv := newTestSaver(f)

		s, err := a.Begin(context.Background(), testChronoID)
		require.NoError(t, err)

		_, err = sv.Save(context.Background(), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resolve existing dope session")
		assert.Equal(t, 0, f.saveCalls, "header write never attempted")
	})

	t.Run("write failure surfaces with context", func(t *testing.T) {
		f := newFakeStore()
		seedFixtures(f)
		f.saveErr = errors.New("disk full")
		a := newTestAssembler(f)
		sv := newTestSaver(f)

		s, err := a.Begin(context.Background(), testChronoID)
		require.NoError(t, err)

		_, err = sv.Save(context.Background(), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save dope session")
	})
}

func TestRoundTrip_RestageRestoresEdits(t *testing.T) {
	f := newFakeStore()
	seedFixtures(f)
	a := newTestAssembler(f)
	sv := newTestSaver(f)

	s, err := a.Begin(context.Background(), testChronoID)
	require.NoError(t, err)
	require.NoError(t, a.SelectWeatherSource(context.Background(), s, testWeatherID))
	require.NoError(t, a.SelectRange(context.Background(), s, testRangeID))
	require.NoError(t, s.EditRow(1, dope.RowEdit{Distance: ptr("823"), Elevation: ptr("6.4"), ColdBore: ptr(true)}))
	require.NoError(t, s.EditRow(3, dope.RowEdit{Windage: ptr("0.2"), Notes: ptr("wind died down")}))

	res, err := sv.Save(context.Background(), s)
	require.NoError(t, err)

	restaged, err := a.Restage(context.Background(), res.SessionID)
	require.NoError(t, err)

	if diff := cmp.Diff(s.Rows(), restaged.Rows()); diff != "" {
		t.Errorf("restaged rows mismatch (-saved +restaged):\n%s", diff)
	}
	assert.Equal(t, s.Sources(), restaged.Sources())
}
