// Package aggregate rolls 30-minute weather samples up into daily or monthly
// buckets using only daylight samples for the averages.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/types"
)

// hoursPerSample converts a sum of 30-minute samples into hour based units.
var hoursPerSample = types.SampleInterval.Hours()

type bucketSums struct {
	key         types.BucketKey
	daytimeTemp float64
	gti         float64
	sunHours    float64
	samples     int
}

// Aggregate groups the series by calendar day or month and returns the buckets
// ordered by key. The series must be ordered by timestamp.
func Aggregate(ctx context.Context, series types.TimeSeries, g types.Granularity) ([]types.Bucket, error) {
	if g != types.GranularityDaily && g != types.GranularityMonthly {
		return nil, fmt.Errorf("%w: unsupported granularity %q", types.ErrTypeMismatch, g)
	}
	if err := validateSeries(series); err != nil {
		return nil, err
	}

	sums := make(map[types.BucketKey]*bucketSums)
	for _, s := range series {
		key := types.KeyFor(s.Timestamp, g)
		b, ok := sums[key]
		if !ok {
			b = &bucketSums{key: key}
			sums[key] = b
		}
		if temp, ok := s.DaytimeTemp(); ok {
			b.daytimeTemp += temp
		}
		b.gti += s.GTI
		b.sunHours += s.SunHours()
		b.samples++
	}

	buckets := make([]types.Bucket, 0, len(sums))
	var dark int
	for _, b := range sums {
		bucket := types.Bucket{
			Key:           b.key,
			TotalSunHours: b.sunHours,
			TotalGTIWh:    b.gti * hoursPerSample,
		}
		if b.sunHours > 0 {
			avgTemp := b.daytimeTemp * hoursPerSample / b.sunHours
			bucket.AvgDaytimeTempC = &avgTemp
			bucket.AvgHourlyGTI = bucket.TotalGTIWh / b.sunHours
		} else {
			dark++
		}
		buckets = append(buckets, bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key.Before(buckets[j].Key)
	})

	log.Ctx(ctx).DebugContext(
		ctx,
		"aggregated weather samples",
		slog.String("granularity", string(g)),
		slog.Int("samples", len(series)),
		slog.Int("buckets", len(buckets)),
		slog.Int("darkBuckets", dark),
	)
	return buckets, nil
}

// Daily is Aggregate with daily granularity.
func Daily(ctx context.Context, series types.TimeSeries) ([]types.Bucket, error) {
	return Aggregate(ctx, series, types.GranularityDaily)
}

// Monthly is Aggregate with monthly granularity.
func Monthly(ctx context.Context, series types.TimeSeries) ([]types.Bucket, error) {
	return Aggregate(ctx, series, types.GranularityMonthly)
}

func validateSeries(series types.TimeSeries) error {
	for i, s := range series {
		if s.Timestamp.IsZero() {
			return fmt.Errorf("%w: sample %d has no timestamp", types.ErrTypeMismatch, i)
		}
		if i > 0 && s.Timestamp.Before(series[i-1].Timestamp) {
			return fmt.Errorf("%w: sample %d at %s is before previous sample at %s", types.ErrTypeMismatch, i, s.Timestamp, series[i-1].Timestamp)
		}
	}
	return nil
}
