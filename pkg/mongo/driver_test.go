package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/event"
)

func TestPoolTracker(t *testing.T) {
	t.Parallel()

	const (
		primary   = "db-0:27017"
		secondary = "db-1:27017"
	)
	serviceID := bson.NewObjectID()

	tests := []struct {
		name   string
		events []event.PoolEvent
		close  bool
		want   bool
	}{
		{
			name: "active before any pool event",
			want: true,
		},
		{
			name:   "active with a ready pool",
			events: []event.PoolEvent{{Type: event.ConnectionPoolReady, Address: primary}},
			want:   true,
		},
		{
			name: "inactive once the only pool is cleared",
			events: []event.PoolEvent{
				{Type: event.ConnectionPoolReady, Address: primary},
				{Type: event.ConnectionPoolCleared, Address: primary},
			},
			want: false,
		},
		{
			name: "active again after the pool recovers",
			events: []event.PoolEvent{
				{Type: event.ConnectionPoolReady, Address: primary},
				{Type: event.ConnectionPoolCleared, Address: primary},
				{Type: event.ConnectionPoolReady, Address: primary},
			},
			want: true,
		},
		{
			name: "active while one of several pools is ready",
			events: []event.PoolEvent{
				{Type: event.ConnectionPoolReady, Address: primary},
				{Type: event.ConnectionPoolReady, Address: secondary},
				{Type: event.ConnectionPoolCleared, Address: primary},
			},
			want: true,
		},
		{
			name: "closed pools are forgotten",
			events: []event.PoolEvent{
				{Type: event.ConnectionPoolCleared, Address: primary},
				{Type: event.ConnectionPoolClosed, Address: primary},
			},
			want: true,
		},
		{
			name: "unrelated events are ignored",
			events: []event.PoolEvent{
				{Type: event.ConnectionPoolCleared, Address: primary},
				{Type: event.ConnectionCheckedOut, Address: primary},
			},
			want: false,
		},
		{
			name: "load-balanced service clears keep the pool ready",
			events: []event.PoolEvent{
				{Type: event.ConnectionPoolReady, Address: primary},
				{Type: event.ConnectionPoolCleared, Address: primary, ServiceID: &serviceID},
			},
			want: true,
		},
		{
			name:   "inactive after close",
			events: []event.PoolEvent{{Type: event.ConnectionPoolReady, Address: primary}},
			close:  true,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tracker := newPoolTracker()
			monitor := tracker.monitor()
			for i := range tt.events {
				monitor.Event(&tt.events[i])
			}
			monitor.Event(nil)
			if tt.close {
				tracker.close()
			}
			assert.Equal(t, tt.want, tracker.active())
		})
	}
}

func TestDriverClient_IsActive(t *testing.T) {
	t.Parallel()

	tracker := newPoolTracker()
	c := &driverClient{pools: tracker}
	assert.True(t, c.IsActive())

	tracker.observe(&event.PoolEvent{Type: event.ConnectionPoolCleared, Address: "db-0:27017"})
	assert.False(t, c.IsActive())
}
