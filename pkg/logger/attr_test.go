package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/activecollection/pkg/logger"
)

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	tests := []struct {
		got  slog.Attr
		want slog.Attr
	}{
		{logger.Database("app"), slog.String("database", "app")},
		{logger.Collection("users"), slog.String("collection", "users")},
		{logger.Component("probe"), slog.String("component", "probe")},
		{logger.RunID("r1"), slog.String("run_id", "r1")},
		{logger.Count(3), slog.Int64("count", 3)},
		{logger.Duration(1500 * time.Millisecond), slog.Int64("duration_ms", 1500)},
	}
	for _, tt := range tests {
		assert.True(t, tt.got.Equal(tt.want), "%s != %s", tt.got, tt.want)
	}
}
