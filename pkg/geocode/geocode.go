// Package geocode resolves coordinates to a place name using Nominatim.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/pvyield/pvyield/pkg/common"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/metrics"
	"github.com/pvyield/pvyield/pkg/types"
)

const metricsService = "nominatim"

// Client performs reverse geocoding lookups.
type Client struct {
	apiURL   string
	language string
	client   *http.Client
	metrics  *metrics.Collector
}

// Configured sets up flags for Nominatim and returns the instance. An empty
// url disables lookups.
func Configured(m *metrics.Collector) *Client {
	c := &Client{metrics: m}
	apiURL := lflag.String("nominatim-url", "https://nominatim.openstreetmap.org", "Base URL for the Nominatim API, empty to disable reverse geocoding")
	language := lflag.String("nominatim-language", "en-gb", "Preferred language for place names")

	lflag.Do(func() {
		c.apiURL = *apiURL
		c.language = *language
		c.client = common.HTTPClient(10 * time.Second)
	})

	return c
}

// New returns a client for the given API.
func New(apiURL, language string, client *http.Client, m *metrics.Collector) *Client {
	return &Client{
		apiURL:   apiURL,
		language: language,
		client:   client,
		metrics:  m,
	}
}

// Enabled reports whether lookups will be attempted.
func (c *Client) Enabled() bool {
	return c != nil && c.apiURL != ""
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Reverse returns the display name of the place at the site's coordinates.
func (c *Client) Reverse(ctx context.Context, site types.Site) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("reverse geocoding is disabled")
	}
	if err := site.Validate(); err != nil {
		return "", err
	}

	u, err := url.Parse(strings.TrimSuffix(c.apiURL, "/") + "/reverse")
	if err != nil {
		return "", fmt.Errorf("invalid nominatim url: %w", err)
	}
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(site.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(site.Longitude, 'f', -1, 64))
	if c.language != "" {
		params.Set("accept-language", c.language)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveRemote(metricsService, 0, time.Since(start))
		return "", fmt.Errorf("failed to reverse geocode: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRemote(metricsService, resp.StatusCode, time.Since(start))

	if err := common.CheckResponse(resp); err != nil {
		return "", fmt.Errorf("failed to reverse geocode: %w", err)
	}

	var data reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if data.Error != "" {
		return "", fmt.Errorf("nominatim: %s", data.Error)
	}
	if data.DisplayName == "" {
		return "", fmt.Errorf("nominatim returned no place name")
	}

	log.Ctx(ctx).DebugContext(ctx, "reverse geocoded site", slog.String("siteID", site.ID()), slog.String("location", data.DisplayName))
	return data.DisplayName, nil
}

// Locate fills in site.Location. Lookup failures are logged and leave the
// site unchanged.
func (c *Client) Locate(ctx context.Context, site types.Site) types.Site {
	if !c.Enabled() || site.Location != "" {
		return site
	}
	name, err := c.Reverse(ctx, site)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to reverse geocode site", slog.String("siteID", site.ID()), slog.Any("error", err))
		return site
	}
	site.Location = name
	return site
}
