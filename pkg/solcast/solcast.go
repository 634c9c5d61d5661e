// Package solcast retrieves historical irradiance and temperature data from
// the Solcast radiation_and_weather API.
package solcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/pvyield/pvyield/pkg/common"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/metrics"
	"github.com/pvyield/pvyield/pkg/types"
)

const (
	historicPath = "/data/historic/radiation_and_weather"
	// expectedPeriod is the ISO-8601 duration of each returned record.
	expectedPeriod = "PT30M"

	metricsService = "solcast"
)

// Client fetches historic weather data for a site.
type Client struct {
	apiURL  string
	apiKey  string
	client  *http.Client
	metrics *metrics.Collector
}

// Configured sets up flags for Solcast and returns the instance.
// If no api key flag is given, the API_KEY environment variable is used.
func Configured(m *metrics.Collector) *Client {
	c := &Client{metrics: m}
	apiURL := lflag.String("solcast-api-url", "https://api.solcast.com.au", "Base URL for the Solcast API")
	apiKey := lflag.String("solcast-api-key", "", "API key for Solcast (defaults to the API_KEY environment variable)")
	timeout := lflag.Duration("solcast-timeout", 30*time.Second, "Timeout for each Solcast request")

	lflag.Do(func() {
		c.apiURL = *apiURL
		c.apiKey = *apiKey
		if c.apiKey == "" {
			c.apiKey = os.Getenv("API_KEY")
		}
		c.client = common.HTTPClient(*timeout)
	})

	return c
}

// New returns a client for the given API. It is mostly useful for tests.
func New(apiURL, apiKey string, client *http.Client, m *metrics.Collector) *Client {
	return &Client{
		apiURL:  apiURL,
		apiKey:  apiKey,
		client:  client,
		metrics: m,
	}
}

// Validate ensures the configuration is valid.
func (c *Client) Validate() error {
	if c.apiURL == "" {
		return fmt.Errorf("solcast-api-url is required")
	}
	if _, err := url.Parse(c.apiURL); err != nil {
		return fmt.Errorf("failed to parse solcast url (%s): %w", c.apiURL, err)
	}
	if c.apiKey == "" {
		return fmt.Errorf("solcast-api-key or API_KEY is required")
	}
	return nil
}

type estimatedActual struct {
	AirTemp   float64 `json:"air_temp"`
	GTI       float64 `json:"gti"`
	PeriodEnd string  `json:"period_end"`
	Period    string  `json:"period"`
}

type historicResponse struct {
	EstimatedActuals []estimatedActual `json:"estimated_actuals"`
}

// FetchWindow retrieves the 30-minute samples for a single window ordered by
// timestamp. Timestamps are the end of each period in UTC.
func (c *Client) FetchWindow(ctx context.Context, site types.Site, w types.Window) (types.TimeSeries, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(strings.TrimSuffix(c.apiURL, "/") + historicPath)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", formatCoord(site.Latitude))
	params.Set("longitude", formatCoord(site.Longitude))
	params.Set("output_parameters", "gti,air_temp")
	params.Set("array_type", "fixed")
	params.Set("start", w.StartString())
	params.Set("end", w.EndString())
	params.Set("format", "json")
	params.Set("api_key", c.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"fetching weather from solcast",
		slog.String("start", w.StartString()),
		slog.String("end", w.EndString()),
	)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveRemote(metricsService, 0, time.Since(start))
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch weather", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRemote(metricsService, resp.StatusCode, time.Since(start))

	if err := common.CheckResponse(resp); err != nil {
		// the api key is part of the url so don't log it
		log.Ctx(ctx).ErrorContext(ctx, "solcast returned an error", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("failed to fetch data either due to wrong API key or a problem with the API server: %w", err)
	}

	var data historicResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to decode solcast response", slog.Any("error", err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	series := make(types.TimeSeries, 0, len(data.EstimatedActuals))
	for _, item := range data.EstimatedActuals {
		ts, err := time.Parse(time.RFC3339Nano, item.PeriodEnd)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to parse solcast period_end", slog.String("value", item.PeriodEnd), slog.Any("error", err))
			return nil, fmt.Errorf("invalid period_end %q: %w", item.PeriodEnd, err)
		}
		if item.Period != "" && item.Period != expectedPeriod {
			log.Ctx(ctx).WarnContext(ctx, "unexpected solcast period", slog.String("period", item.Period), slog.String("periodEnd", item.PeriodEnd))
		}
		series = append(series, types.WeatherSample{
			Timestamp: ts.UTC(),
			AirTempC:  item.AirTemp,
			GTI:       item.GTI,
		})
	}

	// Sort by Timestamp
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	log.Ctx(ctx).DebugContext(
		ctx,
		"fetched weather",
		slog.Int("count", len(series)),
		slog.String("start", w.StartString()),
		slog.String("end", w.EndString()),
	)
	return series, nil
}

// formatCoord rounds to the same precision the cache is keyed on.
func formatCoord(v float64) string {
	return strconv.FormatFloat(types.RoundCoord(v), 'f', -1, 64)
}
