package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pvyield/pvyield/pkg/types"
)

type memoryEntry struct {
	window  types.WeatherWindow
	version int
}

// Memory keeps cached windows for the lifetime of the process.
type Memory struct {
	mu    sync.RWMutex
	sites map[string]map[string]memoryEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sites: make(map[string]map[string]memoryEntry),
	}
}

func (m *Memory) GetWeatherWindow(ctx context.Context, siteID string, w types.Window) (types.WeatherWindow, int, error) {
	if siteID == "" {
		return types.WeatherWindow{}, 0, fmt.Errorf("siteID cannot be empty")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sites[siteID][docID(w.Start)]
	if !ok {
		return types.WeatherWindow{}, 0, ErrNotFound
	}
	return copyWindow(e.window), e.version, nil
}

func (m *Memory) UpsertWeatherWindow(ctx context.Context, siteID string, ww types.WeatherWindow, version int) error {
	if err := validateWindow(siteID, ww); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	site, ok := m.sites[siteID]
	if !ok {
		site = make(map[string]memoryEntry)
		m.sites[siteID] = site
	}
	ww.SiteID = siteID
	site[docID(ww.Window.Start)] = memoryEntry{window: copyWindow(ww), version: version}
	return nil
}

func (m *Memory) ListWeatherWindows(ctx context.Context, siteID string, start, end time.Time) ([]types.WeatherWindow, error) {
	if siteID == "" {
		return nil, fmt.Errorf("siteID cannot be empty")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var windows []types.WeatherWindow
	for _, e := range m.sites[siteID] {
		s := e.window.Window.Start
		if s.Before(start) || !s.Before(end) || e.version < types.CurrentWeatherWindowVersion {
			continue
		}
		windows = append(windows, copyWindow(e.window))
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Window.Start.Before(windows[j].Window.Start)
	})
	return windows, nil
}

func (m *Memory) Close() error {
	return nil
}

// copyWindow prevents callers from mutating cached samples.
func copyWindow(ww types.WeatherWindow) types.WeatherWindow {
	ww.Samples = append(types.TimeSeries(nil), ww.Samples...)
	return ww
}
