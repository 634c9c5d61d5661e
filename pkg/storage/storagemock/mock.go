package storagemock

import (
	"context"
	"time"

	"github.com/pvyield/pvyield/pkg/storage"
	"github.com/pvyield/pvyield/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetWeatherWindow(ctx context.Context, siteID string, w types.Window) (types.WeatherWindow, int, error) {
	args := m.Called(ctx, siteID, w)
	return args.Get(0).(types.WeatherWindow), args.Int(1), args.Error(2)
}

func (m *MockDatabase) UpsertWeatherWindow(ctx context.Context, siteID string, ww types.WeatherWindow, version int) error {
	args := m.Called(ctx, siteID, ww, version)
	return args.Error(0)
}

func (m *MockDatabase) ListWeatherWindows(ctx context.Context, siteID string, start, end time.Time) ([]types.WeatherWindow, error) {
	args := m.Called(ctx, siteID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.WeatherWindow), args.Error(1)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
