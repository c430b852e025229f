package dope_test

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quietline/dopebook/internal/domain"
	"github.com/quietline/dopebook/internal/dope"
	"github.com/quietline/dopebook/internal/observability"
)

// fakeStore is an in-memory implementation of the dope store interfaces.
type fakeStore struct {
	chronos  map[string]domain.ChronographSession
	shots    map[string][]domain.Shot
	readings map[string][]domain.WeatherReading
	ranges   map[string]domain.RangeRecord
	rifles   map[string]domain.RifleRecord
	ammo     map[string]domain.AmmunitionRecord

	dopeByChrono map[string]domain.DopeSession
	dopeByID     map[string]domain.DopeSession
	details      map[string][]domain.DopeShotDetail

	resolveErr error
	saveErr    error
	saveCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		chronos:      make(map[string]domain.ChronographSession),
		shots:        make(map[string][]domain.Shot),
		readings:     make(map[string][]domain.WeatherReading),
		ranges:       make(map[string]domain.RangeRecord),
		rifles:       make(map[string]domain.RifleRecord),
		ammo:         make(map[string]domain.AmmunitionRecord),
		dopeByChrono: make(map[string]domain.DopeSession),
		dopeByID:     make(map[string]domain.DopeSession),
		details:      make(map[string][]domain.DopeShotDetail),
	}
}

func (f *fakeStore) GetChronographSession(_ context.Context, id string) (domain.ChronographSession, error) {
	c, ok := f.chronos[id]
	if !ok {
		return domain.ChronographSession{}, fmt.Errorf("chronograph session %s: %w", id, dope.ErrNotFound)
	}
	return c, nil
}

func (f *fakeStore) ListShots(_ context.Context, chronoSessionID string) ([]domain.Shot, error) {
	return f.shots[chronoSessionID], nil
}

func (f *fakeStore) ListWeatherReadings(_ context.Context, weatherSourceID string) ([]domain.WeatherReading, error) {
	return f.readings[weatherSourceID], nil
}

func (f *fakeStore) GetRange(_ context.Context, id string) (domain.RangeRecord, error) {
	r, ok := f.ranges[id]
	if !ok {
		return domain.RangeRecord{}, fmt.Errorf("range %s: %w", id, dope.ErrNotFound)
	}
	return r, nil
}

func (f *fakeStore) GetRifle(_ context.Context, id string) (domain.RifleRecord, error) {
	r, ok := f.rifles[id]
	if !ok {
		return domain.RifleRecord{}, fmt.Errorf("rifle %s: %w", id, dope.ErrNotFound)
	}
	return r, nil
}

func (f *fakeStore) GetAmmo(_ context.Context, id string) (domain.AmmunitionRecord, error) {
	a, ok := f.ammo[id]
	if !ok {
		return domain.AmmunitionRecord{}, fmt.Errorf("ammunition %s: %w", id, dope.ErrNotFound)
	}
	return a, nil
}

func (f *fakeStore) GetDopeSessionByChrono(_ context.Context, chronoSessionID string) (domain.DopeSession, error) {
	if f.resolveErr != nil {
		return domain.DopeSession{}, f.resolveErr
	}
	s, ok := f.dopeByChrono[chronoSessionID]
	if !ok {
		return domain.DopeSession{}, fmt.Errorf("dope session for chronograph %s: %w", chronoSessionID, dope.ErrNotFound)
	}
	return s, nil
}

func (f *fakeStore) GetDopeSession(_ context.Context, id string) (domain.DopeSession, error) {
	s, ok := f.dopeByID[id]
	if !ok {
		return domain.DopeSession{}, fmt.Errorf("dope session %s: %w", id, dope.ErrNotFound)
	}
	return s, nil
}

func (f *fakeStore) ListShotDetails(_ context.Context, dopeSessionID string) ([]domain.DopeShotDetail, error) {
	return f.details[dopeSessionID], nil
}

func (f *fakeStore) SaveDopeSession(_ context.Context, session domain.DopeSession, details []domain.DopeShotDetail) (int, error) {
	f.saveCalls++
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.dopeByChrono[session.ChronoSessionID] = session
	f.dopeByID[session.ID] = session
	f.details[session.ID] = append([]domain.DopeShotDetail(nil), details...)
	return len(details), nil
}

// --- fixtures ---

const (
	testChronoID  = "cs-1"
	testWeatherID = "ws-1"
	testRangeID   = "rng-1"
	testRifleID   = "rf-1"
	testAmmoID    = "am-1"
)

func ptr[T any](v T) *T { return &v }

// seedFixtures loads the canonical three-shot session: shots at 10:00,
// 10:05, 10:10 and weather readings at 09:50 (23°C) and 10:04 (24°C).
func seedFixtures(f *fakeStore) {
	f.chronos[testChronoID] = domain.ChronographSession{
		ID:                 testChronoID,
		Owner:              "shooter-1",
		BulletType:         "Berger Hybrid",
		BulletWeightGrains: 185,
		SessionTimestamp:   "2024-04-26T10:00:00Z",
	}
	f.shots[testChronoID] = []domain.Shot{
		{ID: "shot-1", SessionID: testChronoID, ShotNumber: 1, Timestamp: "2024-04-26T10:00:00Z", Speed: 2601, KineticEnergy: 2779, PowerFactor: 481.2},
		{ID: "shot-2", SessionID: testChronoID, ShotNumber: 2, Timestamp: "2024-04-26T10:05:00Z", Speed: 2598, KineticEnergy: 2772, PowerFactor: 480.6},
		{ID: "shot-3", SessionID: testChronoID, ShotNumber: 3, Timestamp: "2024-04-26T10:10:00Z", Speed: 2604, KineticEnergy: 2785, PowerFactor: 481.7},
	}
	f.readings[testWeatherID] = []domain.WeatherReading{
		{ID: "r-0950", SourceID: testWeatherID, Timestamp: "2024-04-26T09:50:00Z", TemperatureC: ptr(23.0), PressureHPa: ptr(1012.0)},
		{ID: "r-1004", SourceID: testWeatherID, Timestamp: "2024-04-26T10:04:00Z", TemperatureC: ptr(24.0), PressureHPa: ptr(1011.5)},
	}
	f.ranges[testRangeID] = domain.RangeRecord{
		ID:                testRangeID,
		Owner:             "shooter-1",
		Name:              "Miller Flats 900",
		AzimuthDeg:        ptr(142.5),
		ElevationAngleDeg: ptr(-1.8),
		DistanceM:         ptr(823.0),
	}
	f.rifles[testRifleID] = domain.RifleRecord{ID: testRifleID, Owner: "shooter-1", Name: "GA Precision .308", BarrelLengthIn: ptr(24.0)}
	f.ammo[testAmmoID] = domain.AmmunitionRecord{ID: testAmmoID, Owner: "shooter-1", Make: ptr("Federal"), Caliber: ptr(".308 Win"), WeightGrains: ptr(185.0)}
}

func newTestAssembler(f *fakeStore) *dope.Assembler {
	return dope.NewAssembler(f, f, slog.Default(), observability.NewMetricsForTesting(), 30*time.Minute)
}

func newTestSaver(f *fakeStore) *dope.Saver {
	return dope.NewSaver(f, slog.Default(), observability.NewMetricsForTesting())
}
