package mongo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/activecollection/pkg/mongo"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		check := mongo.Healthcheck(pingFunc(func(context.Context) error { return nil }))
		require.NoError(t, check(context.Background()))
	})

	t.Run("wraps ping failures", func(t *testing.T) {
		t.Parallel()
		pingErr := errors.New("server selection timeout")
		check := mongo.Healthcheck(pingFunc(func(context.Context) error { return pingErr }))

		err := check(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, mongo.ErrHealthcheckFailed)
		assert.ErrorIs(t, err, pingErr)
	})
}
