package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pvyield/pvyield/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	site := types.Site{Latitude: 59.9127, Longitude: 10.7461}
	w := types.Window{
		Start: time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, time.June, 30, 23, 59, 59, 0, time.UTC),
	}

	series := syntheticWindow(rng, site, w)
	// 30 days of half-hourly samples, the final midnight belongs to the next window
	require.Len(t, series, 30*48-1)
	assert.Equal(t, w.Start.Add(30*time.Minute), series[0].Timestamp)

	var sunny, dark int
	for i, s := range series {
		assert.True(t, w.Contains(s.Timestamp))
		assert.GreaterOrEqual(t, s.GTI, 0.0)
		if i > 0 {
			assert.True(t, s.Timestamp.After(series[i-1].Timestamp))
		}
		if s.GTI > 0 {
			sunny++
		} else {
			dark++
		}
	}
	assert.Greater(t, sunny, dark)

	// midnight in winter is dark
	winter := syntheticWindow(rng, site, types.Window{
		Start: time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, time.December, 1, 1, 0, 0, 0, time.UTC),
	})
	require.Len(t, winter, 2)
	assert.Equal(t, 0.0, winter[0].GTI)
	assert.Equal(t, 0.0, winter[1].GTI)
}
