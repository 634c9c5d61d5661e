package solcast

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pvyield/pvyield/pkg/common"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/metrics"
	"github.com/pvyield/pvyield/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}

var testSite = types.Site{Latitude: -33.86, Longitude: 151.2}

func TestFetchWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/historic/radiation_and_weather", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "-33.86", q.Get("latitude"))
		assert.Equal(t, "151.2", q.Get("longitude"))
		assert.Equal(t, "gti,air_temp", q.Get("output_parameters"))
		assert.Equal(t, "fixed", q.Get("array_type"))
		assert.Equal(t, "2022-01-01T00:00:00Z", q.Get("start"))
		assert.Equal(t, "2022-01-31T23:59:59Z", q.Get("end"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Contains(t, r.Header.Get("User-Agent"), "PVYield/")

		w.Header().Set("Content-Type", "application/json")
		// newest first, like the live API
		_, _ = w.Write([]byte(`{"estimated_actuals":[
			{"air_temp":24,"gti":512.5,"period_end":"2022-01-01T01:00:00.0000000Z","period":"PT30M"},
			{"air_temp":23,"gti":300,"period_end":"2022-01-01T00:30:00.0000000Z","period":"PT30M"}
		]}`))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	c := New(server.URL, "secret", common.HTTPClient(5*time.Second), m)
	require.NoError(t, c.Validate())

	w := types.Window{
		Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	series, err := c.FetchWindow(context.Background(), testSite, w)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, time.Date(2022, 1, 1, 0, 30, 0, 0, time.UTC), series[0].Timestamp)
	assert.Equal(t, 23.0, series[0].AirTempC)
	assert.Equal(t, 300.0, series[0].GTI)
	assert.Equal(t, time.Date(2022, 1, 1, 1, 0, 0, 0, time.UTC), series[1].Timestamp)
	assert.Equal(t, 512.5, series[1].GTI)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteRequestsTotal.WithLabelValues("solcast", "200")))
}

func TestFetchWindowErrors(t *testing.T) {
	ctx := context.Background()
	w := types.Window{
		Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC),
	}

	t.Run("Unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("bad key"))
		}))
		defer server.Close()

		c := New(server.URL, "wrong", common.HTTPClient(time.Second), nil)
		_, err := c.FetchWindow(ctx, testSite, w)
		var httpErr *common.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	})

	t.Run("Bad JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		c := New(server.URL, "key", common.HTTPClient(time.Second), nil)
		_, err := c.FetchWindow(ctx, testSite, w)
		assert.ErrorContains(t, err, "failed to decode response")
	})

	t.Run("Bad period_end", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"estimated_actuals":[
				{"air_temp":23,"gti":300,"period_end":"2022-01-01T00:30:00.0000000Z","period":"PT30M"},
				{"air_temp":22,"gti":0,"period_end":"bogus","period":"PT30M"}
			]}`))
		}))
		defer server.Close()

		c := New(server.URL, "key", common.HTTPClient(time.Second), nil)
		series, err := c.FetchWindow(ctx, testSite, w)
		assert.ErrorContains(t, err, `invalid period_end "bogus"`)
		assert.Nil(t, series)
	})

	t.Run("Invalid Site", func(t *testing.T) {
		c := New("http://127.0.0.1:0", "key", common.HTTPClient(time.Second), nil)
		_, err := c.FetchWindow(ctx, types.Site{Latitude: 95}, w)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	})
}

func TestFetchWindowRoundsCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "59.9127", q.Get("latitude"))
		assert.Equal(t, "10.7461", q.Get("longitude"))
		_, _ = w.Write([]byte(`{"estimated_actuals":[]}`))
	}))
	defer server.Close()

	c := New(server.URL, "key", common.HTTPClient(time.Second), nil)
	site := types.Site{Latitude: 59.912731, Longitude: 10.746088}
	w := types.Window{
		Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	series, err := c.FetchWindow(context.Background(), site, w)
	require.NoError(t, err)
	assert.Empty(t, series)
	assert.Equal(t, "59.9127_10.7461", site.ID())
}

func TestValidate(t *testing.T) {
	assert.Error(t, New("", "key", nil, nil).Validate())
	assert.Error(t, New("https://api.solcast.com.au", "", nil, nil).Validate())
	assert.NoError(t, New("https://api.solcast.com.au", "key", nil, nil).Validate())
}
