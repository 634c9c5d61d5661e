// Package estimator runs a full yield estimate for a site: it fetches the
// weather history window by window, aggregates it into buckets, runs the panel
// model over every bucket and summarizes the result.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pvyield/pvyield/pkg/aggregate"
	"github.com/pvyield/pvyield/pkg/daterange"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/metrics"
	"github.com/pvyield/pvyield/pkg/panel"
	"github.com/pvyield/pvyield/pkg/report"
	"github.com/pvyield/pvyield/pkg/simulate"
	"github.com/pvyield/pvyield/pkg/storage"
	"github.com/pvyield/pvyield/pkg/types"
)

// WeatherSource returns the samples for a single window.
type WeatherSource interface {
	FetchWindow(ctx context.Context, site types.Site, w types.Window) (types.TimeSeries, error)
}

// Locator resolves a human readable location for a site.
type Locator interface {
	Locate(ctx context.Context, site types.Site) types.Site
}

// Estimator ties the weather source, the cache and the panel model together.
type Estimator struct {
	source  WeatherSource
	db      storage.Database
	locator Locator
	metrics *metrics.Collector

	now func() time.Time
}

// New returns an Estimator. db, locator and m may be nil.
func New(source WeatherSource, db storage.Database, locator Locator, m *metrics.Collector) *Estimator {
	return &Estimator{
		source:  source,
		db:      db,
		locator: locator,
		metrics: m,
		now:     time.Now,
	}
}

// Windows returns the request windows for the given number of years relative
// to the current time.
func (e *Estimator) Windows(years int) ([]types.Window, error) {
	return daterange.Generate(e.now(), years)
}

// Estimate runs the yield simulation described by req.
func (e *Estimator) Estimate(ctx context.Context, req types.EstimateRequest) (types.Estimate, error) {
	start := time.Now()
	est, samples, err := e.estimate(ctx, req)
	e.metrics.ObserveEstimate(err, time.Since(start), samples)
	return est, err
}

func (e *Estimator) estimate(ctx context.Context, req types.EstimateRequest) (types.Estimate, int, error) {
	if req.Granularity == "" {
		req.Granularity = types.GranularityMonthly
	}
	if err := req.Validate(); err != nil {
		return types.Estimate{}, 0, err
	}
	p, err := panel.New(req.STCEfficiency, req.TempCoefficient)
	if err != nil {
		return types.Estimate{}, 0, err
	}
	windows, err := e.Windows(req.Years)
	if err != nil {
		return types.Estimate{}, 0, err
	}

	site := req.Site()
	if e.locator != nil {
		site = e.locator.Locate(ctx, site)
	}
	ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("siteID", site.ID())))

	series, err := e.Series(ctx, site, windows)
	if err != nil {
		return types.Estimate{}, 0, err
	}

	buckets, err := aggregate.Aggregate(ctx, series, req.Granularity)
	if err != nil {
		return types.Estimate{}, len(series), err
	}
	area := float64(req.PanelAreaM2)
	buckets = simulate.Run(ctx, p, buckets, area)

	yearly, err := report.Summarize(buckets, types.SummaryYears, req.PanelAreaM2, site.Name())
	if err != nil {
		return types.Estimate{}, len(series), fmt.Errorf("failed to summarize years: %w", err)
	}
	monthly, err := report.Summarize(buckets, types.SummaryMonths, req.PanelAreaM2, site.Name())
	if err != nil {
		return types.Estimate{}, len(series), fmt.Errorf("failed to summarize months: %w", err)
	}

	log.Ctx(ctx).InfoContext(
		ctx,
		"estimate finished",
		slog.Int("years", req.Years),
		slog.Int("samples", len(series)),
		slog.Time("first", series.Start()),
		slog.Time("last", series.End()),
		slog.Int("buckets", len(buckets)),
		slog.Float64("totalKWH", simulate.Total(buckets)),
	)

	return types.Estimate{
		ID:          uuid.NewString(),
		CreatedAt:   e.now().UTC(),
		Request:     req,
		Site:        site,
		Granularity: req.Granularity,
		Buckets:     buckets,
		Yearly:      yearly,
		Monthly:     monthly,
	}, len(series), nil
}

// Series returns the concatenated samples for every window. The cached span
// is read in one query and only missing or outdated windows are fetched and
// written back to the cache. Samples repeated across window boundaries are
// dropped.
func (e *Estimator) Series(ctx context.Context, site types.Site, windows []types.Window) (types.TimeSeries, error) {
	cached, listed := e.cached(ctx, site, windows)

	var series types.TimeSeries
	for _, w := range windows {
		var samples types.TimeSeries
		var err error
		if c, ok := cached[w.Start.Unix()]; ok && c.Window.End.Equal(w.End) {
			e.metrics.ObserveCache(true)
			samples = c.Samples
		} else if listed {
			e.metrics.ObserveCache(false)
			samples, err = e.fetch(ctx, site, w)
		} else {
			samples, err = e.window(ctx, site, w)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get window %s to %s: %w", w.StartString(), w.EndString(), err)
		}
		for _, s := range samples {
			if len(series) > 0 && !s.Timestamp.After(series.End()) {
				continue
			}
			series = append(series, s)
		}
	}
	return series, nil
}

// cached lists the cached windows covering windows keyed by their start. The
// returned bool is false if there is no cache or the listing failed.
func (e *Estimator) cached(ctx context.Context, site types.Site, windows []types.Window) (map[int64]types.WeatherWindow, bool) {
	if e.db == nil || len(windows) == 0 {
		return nil, false
	}
	list, err := e.db.ListWeatherWindows(ctx, site.ID(), windows[0].Start, windows[len(windows)-1].End)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to list cached weather windows", slog.Any("error", err))
		return nil, false
	}
	cached := make(map[int64]types.WeatherWindow, len(list))
	for _, ww := range list {
		cached[ww.Window.Start.Unix()] = ww
	}
	return cached, true
}

// window looks up a single cached window before falling back to the source.
func (e *Estimator) window(ctx context.Context, site types.Site, w types.Window) (types.TimeSeries, error) {
	if e.db != nil {
		ww, version, err := e.db.GetWeatherWindow(ctx, site.ID(), w)
		switch {
		case err == nil && version >= types.CurrentWeatherWindowVersion:
			e.metrics.ObserveCache(true)
			return ww.Samples, nil
		case err == nil:
			log.Ctx(ctx).DebugContext(ctx, "cached weather window is outdated", slog.String("start", w.StartString()), slog.Int("version", version))
		case errors.Is(err, storage.ErrNotFound):
		default:
			log.Ctx(ctx).WarnContext(ctx, "failed to read cached weather window", slog.String("start", w.StartString()), slog.Any("error", err))
		}
		e.metrics.ObserveCache(false)
	}
	return e.fetch(ctx, site, w)
}

// fetch retrieves w from the source and writes it to the cache.
func (e *Estimator) fetch(ctx context.Context, site types.Site, w types.Window) (types.TimeSeries, error) {
	samples, err := e.source.FetchWindow(ctx, site, w)
	if err != nil {
		return nil, err
	}

	if e.db != nil {
		siteID := site.ID()
		ww := types.WeatherWindow{
			SiteID:    siteID,
			Window:    w,
			Samples:   samples,
			FetchedAt: e.now().UTC(),
		}
		if err := e.db.UpsertWeatherWindow(ctx, siteID, ww, types.CurrentWeatherWindowVersion); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to cache weather window", slog.String("start", w.StartString()), slog.Any("error", err))
		}
	}
	return samples, nil
}
