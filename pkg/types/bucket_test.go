package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherSample(t *testing.T) {
	day := WeatherSample{Timestamp: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC), AirTempC: 21.5, GTI: 640}
	assert.Equal(t, 0.5, day.SunHours())
	temp, ok := day.DaytimeTemp()
	assert.True(t, ok)
	assert.Equal(t, 21.5, temp)

	night := WeatherSample{Timestamp: time.Date(2023, 6, 1, 2, 0, 0, 0, time.UTC), AirTempC: 12, GTI: 0}
	assert.Equal(t, 0.0, night.SunHours())
	_, ok = night.DaytimeTemp()
	assert.False(t, ok)
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("daily")
	require.NoError(t, err)
	assert.Equal(t, GranularityDaily, g)

	g, err = ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, GranularityMonthly, g)

	_, err = ParseGranularity("weekly")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBucketKey(t *testing.T) {
	ts := time.Date(2022, 3, 14, 15, 30, 0, 0, time.UTC)
	monthly := KeyFor(ts, GranularityMonthly)
	daily := KeyFor(ts, GranularityDaily)

	assert.Equal(t, BucketKey{Year: 2022, Month: time.March}, monthly)
	assert.Equal(t, BucketKey{Year: 2022, Month: time.March, Day: 14}, daily)
	assert.Equal(t, "2022-03", monthly.String())
	assert.Equal(t, "2022-03-14", daily.String())

	assert.True(t, BucketKey{Year: 2021, Month: time.December}.Before(monthly))
	assert.True(t, BucketKey{Year: 2022, Month: time.February}.Before(monthly))
	assert.True(t, BucketKey{Year: 2022, Month: time.March, Day: 1}.Before(daily))
	assert.False(t, monthly.Before(monthly))
}

func TestBucketYield(t *testing.T) {
	var b Bucket
	_, ok := b.Yield()
	assert.False(t, ok)
	assert.False(t, b.HasSun())

	y := 12.5
	b.EnergyYieldKWH = &y
	b.TotalSunHours = 3
	got, ok := b.Yield()
	assert.True(t, ok)
	assert.Equal(t, 12.5, got)
	assert.True(t, b.HasSun())
}

func TestWindowJSON(t *testing.T) {
	w := Window{
		Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2022-01-01T00:00:00Z","end":"2022-01-31T23:59:59Z"}`, string(b))

	var got Window
	require.NoError(t, json.Unmarshal(b, &got))
	assert.True(t, w.Start.Equal(got.Start))
	assert.True(t, w.End.Equal(got.End))

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.End.Add(time.Second)))
}
