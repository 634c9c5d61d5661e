package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	latitudeRE  = regexp.MustCompile(`^[-+]?([1-8]?\d(\.\d+)?|90(\.0+)?)$`)
	longitudeRE = regexp.MustCompile(`^[-+]?(180(\.0+)?|((1[0-7]\d)|([1-9]?\d))(\.\d+)?)$`)
)

// ParseLatitude validates a latitude in decimal degrees.
func ParseLatitude(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !latitudeRE.MatchString(s) {
		return 0, fmt.Errorf("%w: invalid latitude %q, use decimal degrees", ErrInvalidArgument, s)
	}
	return strconv.ParseFloat(s, 64)
}

// ParseLongitude validates a longitude in decimal degrees.
func ParseLongitude(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !longitudeRE.MatchString(s) {
		return 0, fmt.Errorf("%w: invalid longitude %q, use decimal degrees", ErrInvalidArgument, s)
	}
	return strconv.ParseFloat(s, 64)
}

// Site is the location of an installation.
type Site struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Location is a human readable place name, if known.
	Location string `json:"location,omitempty"`
}

// Validate checks the coordinates are within range.
func (s Site) Validate() error {
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidArgument, s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidArgument, s.Longitude)
	}
	return nil
}

// ID returns a stable identifier derived from the coordinates rounded to 4
// decimal places, which is about 11m.
func (s Site) ID() string {
	return fmt.Sprintf("%s_%s", formatCoord(s.Latitude), formatCoord(s.Longitude))
}

// Coordinates formats the site as "lat, lon".
func (s Site) Coordinates() string {
	return formatCoord(s.Latitude) + ", " + formatCoord(s.Longitude)
}

// Name returns the location if set, otherwise the coordinates.
func (s Site) Name() string {
	if s.Location != "" {
		return s.Location
	}
	return s.Coordinates()
}

// coordPrecision is the number of decimal places coordinates are rounded to.
const coordPrecision = 4

// RoundCoord rounds a coordinate to the precision used by ID so that sites
// sharing an ID also share the same weather.
func RoundCoord(v float64) float64 {
	r, _ := strconv.ParseFloat(formatCoord(v), 64)
	return r
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', coordPrecision, 64)
}
