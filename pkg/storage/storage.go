package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/pvyield/pvyield/pkg/types"
)

var (
	// ErrNotFound is returned when a cached weather window does not exist.
	ErrNotFound = errors.New("not found")
)

// Database defines the interface for caching fetched weather windows so that
// repeated estimates for the same site do not hit the weather API again.
type Database interface {
	// GetWeatherWindow returns the cached samples for the window starting at
	// w.Start along with the version they were stored with.
	GetWeatherWindow(ctx context.Context, siteID string, w types.Window) (types.WeatherWindow, int, error)
	// UpsertWeatherWindow adds or replaces the cached samples for a window.
	UpsertWeatherWindow(ctx context.Context, siteID string, ww types.WeatherWindow, version int) error
	// ListWeatherWindows returns cached windows starting in [start, end).
	// Windows stored with a version older than
	// types.CurrentWeatherWindowVersion are omitted.
	ListWeatherWindows(ctx context.Context, siteID string, start, end time.Time) ([]types.WeatherWindow, error)

	// Lifecycle
	Close() error
}

// configured is the Database returned by Configured. The underlying provider
// is set once flags are parsed.
type configured struct {
	Database
}

// Configured sets up the Storage provider based on flags. The provider
// defaults to memory.
func Configured() Database {
	return ConfiguredDefault("memory")
}

// ConfiguredDefault is like Configured but uses defaultProvider when the
// storage-provider flag is not set.
func ConfiguredDefault(defaultProvider string) Database {
	provider := lflag.String("storage-provider", defaultProvider, "Storage provider to use (available: memory, firestore, postgres)")

	p := &configured{}

	fs := configuredFirestore()
	pg := configuredPostgres()

	lflag.Do(func() {
		switch *provider {
		case "memory":
			p.Database = NewMemory()
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		case "postgres":
			if err := pg.Validate(); err != nil {
				panic(fmt.Sprintf("postgres validation failed: %v", err))
			}
			p.Database = pg
			if err := pg.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("postgres init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return p
}

// Ephemeral reports whether db only keeps data for the lifetime of the process.
func Ephemeral(db Database) bool {
	if c, ok := db.(*configured); ok {
		db = c.Database
	}
	_, ok := db.(*Memory)
	return ok
}

func validateWindow(siteID string, ww types.WeatherWindow) error {
	if siteID == "" {
		return fmt.Errorf("siteID cannot be empty")
	}
	if ww.Window.Start.IsZero() {
		return fmt.Errorf("weather window missing start")
	}
	return nil
}

// docID is the RFC3339 window start used as the key of a cached window.
func docID(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
