package types

import (
	"fmt"
	"time"
)

// Granularity is the size of an aggregation bucket.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
)

// ParseGranularity validates a granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDaily, GranularityMonthly:
		return g, nil
	case "":
		return GranularityMonthly, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q", ErrTypeMismatch, s)
	}
}

// BucketKey identifies a calendar day or month. Day is 0 for monthly buckets.
type BucketKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day,omitempty"`
}

// KeyFor returns the bucket key of t at the given granularity.
func KeyFor(t time.Time, g Granularity) BucketKey {
	k := BucketKey{Year: t.Year(), Month: t.Month()}
	if g == GranularityDaily {
		k.Day = t.Day()
	}
	return k
}

// Before reports whether k sorts before o.
func (k BucketKey) Before(o BucketKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

func (k BucketKey) String() string {
	if k.Day == 0 {
		return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Bucket summarizes the samples of one calendar day or month.
type Bucket struct {
	Key BucketKey `json:"key"`

	TotalSunHours float64 `json:"totalSunHours"`
	// TotalGTIWh is the summed irradiance in Wh/m2.
	TotalGTIWh float64 `json:"totalGTIWh"`
	// AvgDaytimeTempC is nil when the bucket has no sun hours.
	AvgDaytimeTempC *float64 `json:"avgDaytimeTempC"`
	// AvgHourlyGTI is 0 when the bucket has no sun hours.
	AvgHourlyGTI float64 `json:"avgHourlyGTI"`

	// EnergyYieldKWH is nil until the simulation has run.
	EnergyYieldKWH *float64 `json:"energyYieldKWH"`
}

// HasSun reports whether any sample in the bucket had positive irradiance.
func (b Bucket) HasSun() bool {
	return b.TotalSunHours > 0
}

// Yield returns the energy yield and whether it was computed.
func (b Bucket) Yield() (float64, bool) {
	if b.EnergyYieldKWH == nil {
		return 0, false
	}
	return *b.EnergyYieldKWH, true
}
