package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const weatherCollection = "weather_windows"

// FirestoreProvider implements Database using Google Cloud Firestore.
// Windows are stored as JSON blobs under sites/{siteID}/weather_windows/{start}.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID verification could be here, but we allow empty if inferred.
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) getCollection(siteID string) (*firestore.CollectionRef, error) {
	if siteID == "" {
		return nil, fmt.Errorf("siteID cannot be empty")
	}
	return f.client.Collection("sites").Doc(siteID).Collection(weatherCollection), nil
}

// decodeWindow reads the json blob and version out of a weather window doc.
func decodeWindow(ctx context.Context, siteID string, doc *firestore.DocumentSnapshot) (types.WeatherWindow, int, error) {
	// Read version if available (default 0)
	var version int
	if v, err := doc.DataAt("version"); err == nil {
		if vInt, ok := v.(int64); ok {
			version = int(vInt)
		}
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "weather window doc missing json", slog.String("docID", doc.Ref.ID), slog.String("siteID", siteID), slog.Any("err", err))
		return types.WeatherWindow{}, 0, fmt.Errorf("weather window doc %s missing 'json' field: %w", doc.Ref.ID, err)
	}

	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "weather window doc json not string", slog.String("docID", doc.Ref.ID), slog.String("siteID", siteID))
		return types.WeatherWindow{}, 0, fmt.Errorf("weather window doc %s 'json' field is not string", doc.Ref.ID)
	}

	var ww types.WeatherWindow
	if err := json.Unmarshal([]byte(jsonStr), &ww); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal weather window", slog.String("docID", doc.Ref.ID), slog.String("siteID", siteID), slog.Any("err", err))
		return types.WeatherWindow{}, 0, fmt.Errorf("failed to unmarshal weather window (id=%s): %w", doc.Ref.ID, err)
	}
	return ww, version, nil
}

// GetWeatherWindow retrieves a cached window by its start time.
func (f *FirestoreProvider) GetWeatherWindow(ctx context.Context, siteID string, w types.Window) (types.WeatherWindow, int, error) {
	coll, err := f.getCollection(siteID)
	if err != nil {
		return types.WeatherWindow{}, 0, err
	}
	doc, err := coll.Doc(docID(w.Start)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.WeatherWindow{}, 0, ErrNotFound
		}
		return types.WeatherWindow{}, 0, fmt.Errorf("failed to fetch weather window doc: %w", err)
	}
	return decodeWindow(ctx, siteID, doc)
}

// UpsertWeatherWindow adds or replaces a cached window.
// The document ID is the RFC3339 window start for efficient range queries.
func (f *FirestoreProvider) UpsertWeatherWindow(ctx context.Context, siteID string, ww types.WeatherWindow, version int) error {
	if err := validateWindow(siteID, ww); err != nil {
		return err
	}
	ww.SiteID = siteID
	jsonBytes, err := json.Marshal(ww)
	if err != nil {
		return fmt.Errorf("failed to marshal weather window: %w", err)
	}

	coll, err := f.getCollection(siteID)
	if err != nil {
		return err
	}
	_, err = coll.Doc(docID(ww.Window.Start)).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"timestamp": ww.Window.Start,
		"fetchedAt": ww.FetchedAt,
		"version":   version,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert weather window: %w", err)
	}
	return nil
}

// ListWeatherWindows retrieves cached windows starting within the range.
// Uses document ID range queries for efficient filtering without reading all documents.
func (f *FirestoreProvider) ListWeatherWindows(ctx context.Context, siteID string, start, end time.Time) ([]types.WeatherWindow, error) {
	coll, err := f.getCollection(siteID)
	if err != nil {
		return nil, err
	}
	iter := coll.
		Where(firestore.DocumentID, ">=", coll.Doc(docID(start))).
		Where(firestore.DocumentID, "<", coll.Doc(docID(end))).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var windows []types.WeatherWindow
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating weather windows: %w", err)
		}
		ww, version, err := decodeWindow(ctx, siteID, doc)
		if err != nil {
			return nil, err
		}
		if version < types.CurrentWeatherWindowVersion {
			continue
		}
		windows = append(windows, ww)
	}
	return windows, nil
}
