package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/activecollection/pkg/mongo"
)

func TestConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "app")
	t.Setenv("MONGODB_COLLECTION", "users")

	var cfg mongo.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "mongodb://localhost:27017", cfg.ConnectionURL)
	assert.Equal(t, "app", cfg.Database)
	assert.Equal(t, "users", cfg.Collection)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, uint64(100), cfg.MaxPoolSize)
	assert.Equal(t, uint64(1), cfg.MinPoolSize)
	assert.Equal(t, 300*time.Second, cfg.MaxConnIdleTime)
	assert.True(t, cfg.RetryWrites)
	assert.True(t, cfg.RetryReads)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryInterval)
	assert.Equal(t, 5*time.Second, cfg.DisconnectTimeout)
}

func TestConfig_RequiresURL(t *testing.T) {
	t.Setenv("MONGODB_URL", "")
	require.NoError(t, os.Unsetenv("MONGODB_URL"))

	var cfg mongo.Config
	assert.Error(t, env.Parse(&cfg))
}

func TestNewActiveCollection(t *testing.T) {
	t.Parallel()

	cfg := mongo.Config{
		ConnectionURL: "mongodb://localhost:27017",
		Database:      "app",
		Collection:    "users",
	}

	t.Run("does not dial on construction", func(t *testing.T) {
		t.Parallel()
		users, err := mongo.NewActiveCollectionFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg.ConnectionURL, users.URI())
		assert.Equal(t, "app", users.DatabaseName())
		assert.Equal(t, "users", users.Name())

		sessions, err := users.WithCollection("sessions")
		require.NoError(t, err)
		assert.Equal(t, "sessions", sessions.Name())
		assert.Equal(t, "app", sessions.DatabaseName())
		assert.Equal(t, "users", users.Name())
	})

	t.Run("validates names", func(t *testing.T) {
		t.Parallel()
		_, err := mongo.NewActiveCollection(cfg, "", "users")
		assert.ErrorIs(t, err, mongo.ErrEmptyDatabaseName)

		_, err = mongo.NewActiveCollection(mongo.Config{}, "app", "users")
		assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

		users, err := mongo.NewActiveCollectionFromConfig(cfg)
		require.NoError(t, err)
		sibling, err := users.WithCollection("")
		assert.ErrorIs(t, err, mongo.ErrEmptyCollectionName)
		assert.Nil(t, sibling)
	})

	t.Run("eager constructor validates input", func(t *testing.T) {
		t.Parallel()
		_, err := mongo.New(context.Background(), mongo.Config{})
		assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

		_, err = mongo.NewWithDatabase(context.Background(), cfg, "")
		assert.ErrorIs(t, err, mongo.ErrEmptyDatabaseName)
	})
}
