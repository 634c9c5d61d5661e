package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pvyield/pvyield/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreProvider(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: "test-project-id",
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	jan := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("NotFound", func(t *testing.T) {
		_, _, err := f.GetWeatherWindow(ctx, "test-site", types.Window{Start: jan})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("EmptySiteID", func(t *testing.T) {
		_, _, err := f.GetWeatherWindow(ctx, "", types.Window{Start: jan})
		assert.ErrorContains(t, err, "siteID cannot be empty")
	})

	t.Run("UpsertAndGet", func(t *testing.T) {
		require.NoError(t, f.UpsertWeatherWindow(ctx, "test-site", testWindow(jan), types.CurrentWeatherWindowVersion))
		got, version, err := f.GetWeatherWindow(ctx, "test-site", types.Window{Start: jan})
		require.NoError(t, err)
		assert.Equal(t, types.CurrentWeatherWindowVersion, version)
		require.Len(t, got.Samples, 2)
		assert.Equal(t, 340.0, got.Samples[0].GTI)
		assert.True(t, got.Window.Start.Equal(jan))
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, f.UpsertWeatherWindow(ctx, "test-site", testWindow(feb), types.CurrentWeatherWindowVersion))
		windows, err := f.ListWeatherWindows(ctx, "test-site", jan, feb.AddDate(0, 1, 0))
		require.NoError(t, err)
		require.Len(t, windows, 2)
		assert.True(t, windows[0].Window.Start.Equal(jan))
		assert.True(t, windows[1].Window.Start.Equal(feb))
	})
}
