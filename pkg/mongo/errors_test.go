package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	driver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/activecollection/pkg/mongo"
)

func TestIsConnectionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"dial failure", errors.Join(mongo.ErrFailedToConnectToMongo, errors.New("connection refused")), true},
		{"client disconnected", driver.ErrClientDisconnected, true},
		{"wrapped client disconnected", fmt.Errorf("find users: %w", driver.ErrClientDisconnected), true},
		{"network labelled command error", driver.CommandError{Code: 91, Message: "shutdown in progress", Labels: []string{"NetworkError"}}, true},
		{"unlabelled command error", driver.CommandError{Code: 13, Message: "unauthorized"}, false},
		{"no documents", driver.ErrNoDocuments, false},
		{"context canceled", context.Canceled, false},
		{"plain error", errors.New("validation failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mongo.IsConnectionError(tt.err))
		})
	}
}
