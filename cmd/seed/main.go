package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/pvyield/pvyield/pkg/daterange"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/storage"
	"github.com/pvyield/pvyield/pkg/types"
)

// seed fills the weather cache with synthetic samples so estimates can be run
// locally without a Solcast api key.
func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	s := storage.ConfiguredDefault("firestore")
	latitude := lflag.String("latitude", "59.9127", "Latitude of the site to seed in decimal degrees")
	longitude := lflag.String("longitude", "10.7461", "Longitude of the site to seed in decimal degrees")
	yearsStr := lflag.String("years", "2", "Number of years back from the current year to seed")
	lflag.Configure()

	ctx := context.Background()
	if _, err := log.Setup(); err != nil {
		panic(err)
	}
	defer s.Close()

	if err := checkStore(s); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "cannot seed storage", slog.Any("error", err))
		os.Exit(1)
	}

	lat, err := types.ParseLatitude(*latitude)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid latitude", slog.Any("error", err))
		os.Exit(1)
	}
	lon, err := types.ParseLongitude(*longitude)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid longitude", slog.Any("error", err))
		os.Exit(1)
	}
	years, err := daterange.ParseYears(*yearsStr)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid years", slog.Any("error", err))
		os.Exit(1)
	}
	site := types.Site{Latitude: lat, Longitude: lon}
	windows, err := daterange.Generate(time.Now(), years)
	if err != nil {
		panic(err)
	}

	log.Ctx(ctx).InfoContext(ctx, "seeding synthetic weather", slog.String("siteID", site.ID()), slog.Int("windows", len(windows)))

	// Use a new random source
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, w := range windows {
		ww := types.WeatherWindow{
			SiteID:    site.ID(),
			Window:    w,
			Samples:   syntheticWindow(rng, site, w),
			FetchedAt: time.Now().UTC(),
		}
		if err := s.UpsertWeatherWindow(ctx, site.ID(), ww, types.CurrentWeatherWindowVersion); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed window", slog.String("start", w.StartString()), slog.Any("error", err))
			os.Exit(1)
		}
	}

	log.Ctx(ctx).InfoContext(ctx, "seeding complete")
}

// checkStore rejects stores that would lose the seeded windows on exit.
func checkStore(db storage.Database) error {
	if storage.Ephemeral(db) {
		return errors.New("storage-provider memory does not persist, use firestore or postgres")
	}
	return nil
}
