//go:build integration

package integration

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/redis"
	"github.com/dkswoans/2307-fastapiProjects/pkg/config"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const schemaPath = "../../migrations/001_initial_schema.sql"

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func testDatabaseConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "city_services_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}
}

func newTestPostgresClient(t *testing.T) *postgres.Client {
	t.Helper()

	client, err := postgres.NewClient(context.Background(), testDatabaseConfig())
	require.NoError(t, err, "Failed to create postgres client")
	return client
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	cfg := &config.RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	}

	client, err := redis.NewClient(context.Background(), cfg)
	require.NoError(t, err, "Failed to create redis client")
	return client
}

func runMigrations(t *testing.T, db *sqlx.DB, paths ...string) {
	t.Helper()
	for _, path := range paths {
		migrationSQL, err := os.ReadFile(path)
		require.NoError(t, err)
		_, err = db.Exec(string(migrationSQL))
		require.NoError(t, err)
	}
}

func cleanupTables(t *testing.T, db *sqlx.DB) {
	t.Helper()
	_, err := db.Exec("TRUNCATE reservations, facilities, walk_records, trail_reviews, trails, users, badges RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

func waitForReservationEvent(t *testing.T, ch <-chan *entities.ReservationEvent) *entities.ReservationEvent {
	t.Helper()
	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reservation event")
		return nil
	}
}
