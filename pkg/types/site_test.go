package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatitude(t *testing.T) {
	valid := map[string]float64{
		"0":        0,
		"45.5":     45.5,
		"-33.8688": -33.8688,
		"+89.9999": 89.9999,
		"90":       90,
		"90.000":   90,
		" 12.5 ":   12.5,
	}
	for in, want := range valid {
		t.Run(in, func(t *testing.T) {
			got, err := ParseLatitude(in)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-9)
		})
	}

	for _, in := range []string{"", "91", "90.1", "100", "abc", "45,5", "1e2", "45."} {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := ParseLatitude(in)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestParseLongitude(t *testing.T) {
	valid := map[string]float64{
		"0":         0,
		"151.2093":  151.2093,
		"-122.4194": -122.4194,
		"180":       180,
		"-180.0":    -180,
		"99.9":      99.9,
	}
	for in, want := range valid {
		t.Run(in, func(t *testing.T) {
			got, err := ParseLongitude(in)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-9)
		})
	}

	for _, in := range []string{"", "181", "180.5", "200", "-190", "east"} {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := ParseLongitude(in)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestSite(t *testing.T) {
	s := Site{Latitude: 59.91273, Longitude: 10.74609}
	assert.NoError(t, s.Validate())
	assert.Equal(t, "59.9127_10.7461", s.ID())
	assert.Equal(t, 59.9127, RoundCoord(s.Latitude))
	assert.Equal(t, 10.7461, RoundCoord(s.Longitude))
	assert.Equal(t, "59.9127, 10.7461", s.Name())

	s.Location = "Oslo, Norway"
	assert.Equal(t, "Oslo, Norway", s.Name())

	assert.ErrorIs(t, Site{Latitude: 91}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, Site{Longitude: -181}.Validate(), ErrInvalidArgument)
}
