package types

import "time"

// SampleInterval is the cadence of the historical weather records.
const SampleInterval = 30 * time.Minute

// WeatherSample is a single 30-minute observation. Timestamp is the end of the
// period expressed as a UTC wall clock.
type WeatherSample struct {
	Timestamp time.Time `json:"timestamp"`
	AirTempC  float64   `json:"airTempC"`
	// GTI is the global tilted irradiance in W/m2.
	GTI float64 `json:"gti"`
}

// SunHours is the sun-hour contribution of the sample.
func (s WeatherSample) SunHours() float64 {
	if s.GTI > 0 {
		return SampleInterval.Hours()
	}
	return 0
}

// DaytimeTemp returns the air temperature if the sample was taken while the
// sun was up.
func (s WeatherSample) DaytimeTemp() (float64, bool) {
	if s.GTI > 0 {
		return s.AirTempC, true
	}
	return 0, false
}

// TimeSeries is an ordered sequence of samples at SampleInterval cadence.
type TimeSeries []WeatherSample

// Start returns the timestamp of the first sample.
func (ts TimeSeries) Start() time.Time {
	if len(ts) == 0 {
		return time.Time{}
	}
	return ts[0].Timestamp
}

// End returns the timestamp of the last sample.
func (ts TimeSeries) End() time.Time {
	if len(ts) == 0 {
		return time.Time{}
	}
	return ts[len(ts)-1].Timestamp
}
