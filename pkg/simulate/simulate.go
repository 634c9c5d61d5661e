// Package simulate runs the panel efficiency model over aggregated buckets.
package simulate

import (
	"context"
	"log/slog"

	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/panel"
	"github.com/pvyield/pvyield/pkg/types"
)

// BucketYield returns the energy yield in KWh of a single bucket. Buckets
// without any sun hours produce nothing.
func BucketYield(p panel.SolarPanel, b types.Bucket, panelAreaM2 float64) float64 {
	if !b.HasSun() || b.AvgDaytimeTempC == nil {
		return 0
	}
	return p.EnergyYield(*b.AvgDaytimeTempC, b.AvgHourlyGTI, b.TotalGTIWh, panelAreaM2)
}

// Run returns a copy of buckets with EnergyYieldKWH populated for every bucket.
// The input slice is not modified.
func Run(ctx context.Context, p panel.SolarPanel, buckets []types.Bucket, panelAreaM2 float64) []types.Bucket {
	out := make([]types.Bucket, len(buckets))
	var total float64
	var dark int
	for i, b := range buckets {
		y := BucketYield(p, b, panelAreaM2)
		b.EnergyYieldKWH = &y
		out[i] = b

		total += y
		if !b.HasSun() {
			dark++
		}
	}

	log.Ctx(ctx).DebugContext(
		ctx,
		"simulated energy yield",
		slog.Int("buckets", len(out)),
		slog.Int("darkBuckets", dark),
		slog.Float64("panelAreaM2", panelAreaM2),
		slog.Float64("totalKWH", total),
	)
	return out
}

// Total sums the yields of buckets that have been simulated.
func Total(buckets []types.Bucket) float64 {
	var total float64
	for _, b := range buckets {
		if y, ok := b.Yield(); ok {
			total += y
		}
	}
	return total
}
