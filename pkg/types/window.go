package types

import (
	"encoding/json"
	"time"
)

// WindowTimeFormat is the layout used for window boundaries in API requests.
const WindowTimeFormat = "2006-01-02T15:04:05Z"

// Window is an inclusive [Start, End] range of time used to chunk requests.
type Window struct {
	Start time.Time
	End   time.Time
}

// StartString formats Start with WindowTimeFormat.
func (w Window) StartString() string {
	return w.Start.UTC().Format(WindowTimeFormat)
}

// EndString formats End with WindowTimeFormat.
func (w Window) EndString() string {
	return w.End.UTC().Format(WindowTimeFormat)
}

// Contains reports whether t falls within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{w.StartString(), w.EndString()})
}

func (w *Window) UnmarshalJSON(b []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	start, err := time.Parse(WindowTimeFormat, raw.Start)
	if err != nil {
		return err
	}
	end, err := time.Parse(WindowTimeFormat, raw.End)
	if err != nil {
		return err
	}
	w.Start = start
	w.End = end
	return nil
}

// CurrentWeatherWindowVersion is the version stored alongside cached windows.
// Increment when the sample format changes so stale cache entries are refetched.
const CurrentWeatherWindowVersion = 1

// WeatherWindow is the set of samples fetched for a single window.
type WeatherWindow struct {
	SiteID    string     `json:"siteID"`
	Window    Window     `json:"window"`
	Samples   TimeSeries `json:"samples"`
	FetchedAt time.Time  `json:"fetchedAt"`
}
