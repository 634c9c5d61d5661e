package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/pvyield/pvyield/pkg/types"
)

const (
	peakGTI     = 950.0
	meanTempC   = 8.0
	seasonTempC = 10.0
)

// seasonal is 1 in midsummer and -1 in midwinter for the site's hemisphere.
func seasonal(site types.Site, t time.Time) float64 {
	v := math.Cos(2 * math.Pi * float64(t.YearDay()-172) / 365)
	if site.Latitude < 0 {
		return -v
	}
	return v
}

// syntheticWindow returns a half-hourly series for w with a bell shaped
// irradiance curve centered on solar noon and a seasonal temperature cycle.
func syntheticWindow(rng *rand.Rand, site types.Site, w types.Window) types.TimeSeries {
	var series types.TimeSeries
	for t := w.Start.Add(types.SampleInterval); w.Contains(t); t = t.Add(types.SampleInterval) {
		season := seasonal(site, t)
		// hours of daylight grow with latitude in summer and shrink in winter
		dayLength := 12 + season*math.Min(math.Abs(site.Latitude)/10, 6)
		solarHour := math.Mod(float64(t.Hour())+float64(t.Minute())/60+site.Longitude/15+24, 24)
		fromNoon := math.Abs(solarHour - 12)

		var gti float64
		if fromNoon < dayLength/2 {
			clouds := 0.5 + rng.Float64()*0.5
			gti = peakGTI * (0.65 + 0.35*season) * math.Cos(math.Pi*fromNoon/dayLength) * clouds
		}
		temp := meanTempC + seasonTempC*season + 4*math.Cos(math.Pi*fromNoon/12) + rng.NormFloat64()

		series = append(series, types.WeatherSample{
			Timestamp: t,
			AirTempC:  math.Round(temp*10) / 10,
			GTI:       math.Round(gti),
		})
	}
	return series
}
