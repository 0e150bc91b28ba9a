package mongo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// NewConnector returns a Connector that dials real deployments with the
// pool and retry settings of cfg. The URI passed to the connector wins over
// cfg.ConnectionURL.
func NewConnector(cfg Config) Connector[*mongo.Collection] {
	return func(ctx context.Context, uri string) (Client[*mongo.Collection], error) {
		tracker := newPoolTracker()
		client, err := connect(ctx, cfg, uri, tracker.monitor())
		if err != nil {
			return nil, err
		}
		return &driverClient{client: client, pools: tracker}, nil
	}
}

type driverClient struct {
	client *mongo.Client
	pools  *poolTracker
}

func (c *driverClient) IsActive() bool {
	return c.pools.active()
}

func (c *driverClient) Database(name string) Database[*mongo.Collection] {
	return driverDatabase{db: c.client.Database(name)}
}

func (c *driverClient) Disconnect(ctx context.Context) error {
	c.pools.close()
	err := c.client.Disconnect(ctx)
	if err != nil && !IsConnectionError(err) {
		return err
	}
	return nil
}

type driverDatabase struct {
	db *mongo.Database
}

func (d driverDatabase) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// poolTracker follows connection pool events to answer IsActive without
// touching the network. A client counts as inactive once it was closed, or
// when every pool it knows about has been cleared and none is ready again.
type poolTracker struct {
	mu     sync.Mutex
	ready  map[string]bool
	closed bool
}

func newPoolTracker() *poolTracker {
	return &poolTracker{ready: make(map[string]bool)}
}

func (t *poolTracker) monitor() *event.PoolMonitor {
	return &event.PoolMonitor{Event: t.observe}
}

func (t *poolTracker) observe(e *event.PoolEvent) {
	if e == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch e.Type {
	case event.ConnectionPoolReady:
		t.ready[e.Address] = true
	case event.ConnectionPoolCleared:
		// Load-balanced pools are cleared per service and never report ready again.
		if e.ServiceID != nil {
			return
		}
		t.ready[e.Address] = false
	case event.ConnectionPoolClosed:
		delete(t.ready, e.Address)
	}
}

func (t *poolTracker) active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false
	}
	if len(t.ready) == 0 {
		return true
	}
	for _, ok := range t.ready {
		if ok {
			return true
		}
	}
	return false
}

func (t *poolTracker) close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}
