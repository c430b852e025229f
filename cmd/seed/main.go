// Command seed populates a dopebook database with a realistic practice
// dataset: one chronograph session with derived energy figures, a weather
// meter log bracketing the string of fire, and the reference records needed
// to exercise the full assemble-edit-save flow.
//
// Usage:
//
//	go run ./cmd/seed -db data/dopebook.db -owner shooter-1
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/quietline/dopebook/internal/domain"
	"github.com/quietline/dopebook/internal/store/sqlite"
)

var baseDate = time.Date(2024, time.April, 26, 10, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "data/dopebook.db", "path to the SQLite database")
	owner := flag.String("owner", "shooter-1", "owner identity for the seeded records")
	flag.Parse()

	// Fixed clock for reproducible created-at timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate))

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	chronoID, err := seedChronograph(ctx, store, *owner)
	if err != nil {
		return fmt.Errorf("seed chronograph: %w", err)
	}
	weatherID, err := seedWeather(ctx, store, *owner)
	if err != nil {
		return fmt.Errorf("seed weather: %w", err)
	}
	rangeID, err := seedRange(ctx, store, *owner)
	if err != nil {
		return fmt.Errorf("seed range: %w", err)
	}
	rifleID, ammoID, err := seedEquipment(ctx, store, *owner)
	if err != nil {
		return fmt.Errorf("seed equipment: %w", err)
	}

	log.Printf("seeded database %s", *dbPath)
	log.Printf("  chronograph session: %s", chronoID)
	log.Printf("  weather source:      %s", weatherID)
	log.Printf("  range:               %s", rangeID)
	log.Printf("  rifle:               %s", rifleID)
	log.Printf("  ammunition:          %s", ammoID)
	return nil
}

func seedChronograph(ctx context.Context, store *sqlite.Store, owner string) (string, error) {
	const bulletGrains = 185.0

	session := domain.ChronographSession{
		ID:                 uuid.NewString(),
		Owner:              owner,
		BulletType:         "Berger Hybrid",
		BulletWeightGrains: bulletGrains,
		SessionTimestamp:   domain.FormatTimestamp(baseDate),
		CreatedAt:          domain.Clock().Now().UTC(),
	}

	speeds := []float64{2745, 2751, 2738, 2749, 2742, 2755, 2747, 2740, 2752, 2744}
	shots := make([]domain.Shot, 0, len(speeds))
	for i, speed := range speeds {
		shots = append(shots, domain.Shot{
			ID:            uuid.NewString(),
			SessionID:     session.ID,
			ShotNumber:    i + 1,
			Timestamp:     domain.FormatTimestamp(baseDate.Add(time.Duration(i) * 45 * time.Second)),
			Speed:         speed,
			KineticEnergy: domain.KineticEnergyFtLbf(bulletGrains, speed),
			PowerFactor:   domain.PowerFactor(bulletGrains, speed),
		})
	}

	if err := store.CreateChronographSession(ctx, session, shots); err != nil {
		return "", err
	}
	return session.ID, nil
}

func seedWeather(ctx context.Context, store *sqlite.Store, owner string) (string, error) {
	src := domain.WeatherSource{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      "Kestrel 5700",
		CreatedAt: domain.Clock().Now().UTC(),
	}
	if err := store.CreateWeatherSource(ctx, src); err != nil {
		return "", err
	}

	ptr := func(v float64) *float64 { return &v }

	// Readings every two minutes from ten minutes before the first shot to
	// ten minutes after the last.
	var readings []domain.WeatherReading
	for i := 0; i <= 13; i++ {
		ts := baseDate.Add(-10*time.Minute + time.Duration(i)*2*time.Minute)
		readings = append(readings, domain.WeatherReading{
			ID:               uuid.NewString(),
			SourceID:         src.ID,
			Timestamp:        domain.FormatTimestamp(ts),
			TemperatureC:     ptr(22.5 + 0.1*float64(i)),
			PressureHPa:      ptr(1013.2 - 0.05*float64(i)),
			HumidityPct:      ptr(41),
			WindSpeedMPS:     ptr(2.8 + 0.2*float64(i%3)),
			WindDirectionDeg: ptr(135),
		})
	}
	if err := store.AddWeatherReadings(ctx, readings); err != nil {
		return "", err
	}
	return src.ID, nil
}

func seedRange(ctx context.Context, store *sqlite.Store, owner string) (string, error) {
	firing := domain.Point{Lat: 43.6142, Lon: -116.3915, AltitudeM: 902}
	target := domain.Point{Lat: 43.6088, Lon: -116.3856, AltitudeM: 886}
	g := domain.RangeGeometry(firing, target)

	desc := "South berm, steel at the far lane"
	rec := domain.RangeRecord{
		ID:                uuid.NewString(),
		Owner:             owner,
		Name:              "Ridge 800",
		Description:       &desc,
		AzimuthDeg:        &g.AzimuthDeg,
		ElevationAngleDeg: &g.ElevationAngleDeg,
		DistanceM:         &g.DistanceM,
		FiringLat:         &firing.Lat,
		FiringLon:         &firing.Lon,
		FiringAltitudeM:   &firing.AltitudeM,
		TargetLat:         &target.Lat,
		TargetLon:         &target.Lon,
		TargetAltitudeM:   &target.AltitudeM,
	}
	if err := store.CreateRange(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func seedEquipment(ctx context.Context, store *sqlite.Store, owner string) (rifleID, ammoID string, err error) {
	barrel := 26.0
	twist := "1:8"
	rifle := domain.RifleRecord{
		ID:             uuid.NewString(),
		Owner:          owner,
		Name:           "GA Precision Crusader",
		BarrelLengthIn: &barrel,
		BarrelTwist:    &twist,
	}
	if err := store.CreateRifle(ctx, rifle); err != nil {
		return "", "", err
	}

	mk := "Berger"
	model := "Hybrid Target"
	caliber := ".308 Win"
	grains := 185.0
	ammo := domain.AmmunitionRecord{
		ID:           uuid.NewString(),
		Owner:        owner,
		Make:         &mk,
		Model:        &model,
		Caliber:      &caliber,
		WeightGrains: &grains,
	}
	if err := store.CreateAmmo(ctx, ammo); err != nil {
		return "", "", err
	}
	return rifle.ID, ammo.ID, nil
}
