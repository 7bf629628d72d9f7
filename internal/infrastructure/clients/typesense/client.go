package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	"github.com/dkswoans/2307-fastapiProjects/pkg/config"
	"github.com/dkswoans/2307-fastapiProjects/pkg/retry"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	TrailsCollection = "trails"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxTotalTimeout = 30 * time.Second

	logger := observability.GetLogger()
	err := retry.DoWithLog(ctx, retryCfg, "Typesense",
		func() error {
			healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := client.Health(healthCtx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Msg("Successfully connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the trails collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == TrailsCollection {
			return nil
		}
	}

	_, err = c.client.Collections().Create(ctx, TrailsSchema())
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	observability.GetLogger().Info().Str("collection", TrailsCollection).Msg("Created Typesense collection")
	return nil
}

// TrailsSchema describes the trails collection
func TrailsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: TrailsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "location", Type: "string"},
			{Name: "trail_type", Type: "string", Facet: pointer.True()},
			{Name: "distance_km", Type: "float"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "tags", Type: "string[]", Optional: pointer.True()},
		},
		DefaultSortingField: pointer.String("distance_km"),
	}
}
