package mongo

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrymomot/activecollection/pkg/logger"
)

const defaultDisconnectTimeout = 5 * time.Second

// Connector dials a deployment and returns a client for it.
type Connector[C any] func(ctx context.Context, uri string) (Client[C], error)

// Client is the part of a driver client the handle depends on.
type Client[C any] interface {
	// IsActive must be cheap and must not block on the network.
	IsActive() bool
	Database(name string) Database[C]
	Disconnect(ctx context.Context) error
}

// Database hands out collections by name.
type Database[C any] interface {
	Collection(name string) C
}

// Option configures a Handle.
type Option func(*handleOptions)

type handleOptions struct {
	log               *slog.Logger
	disconnectTimeout time.Duration
}

// WithLogger sets the logger used for reconnect and retry events.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *handleOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDisconnectTimeout bounds how long releasing a replaced client may take.
// Non-positive values keep the default of five seconds.
func WithDisconnectTimeout(d time.Duration) Option {
	return func(o *handleOptions) {
		if d > 0 {
			o.disconnectTimeout = d
		}
	}
}

// Handle lazily resolves client, database and collection, memoizes each
// level, and rebuilds the whole chain once the cached client reports itself
// inactive.
//
// The caches are guarded by a mutex, but the operation passed to Do or
// Execute runs without it. Handles derived with WithCollection share the
// client and database that were cached at the time of the call. A client
// replaced during resolution is disconnected after the mutex is released.
type Handle[C any] struct {
	uri               string
	database          string
	collection        string
	connect           Connector[C]
	log               *slog.Logger
	disconnectTimeout time.Duration

	mu      sync.Mutex
	client  Client[C]
	db      Database[C]
	coll    C
	hasColl bool
	stale   Client[C]
}

// NewHandle returns a handle for the given target. Nothing is dialed until
// the first call that needs the collection.
func NewHandle[C any](connect Connector[C], uri, database, collection string, opts ...Option) (*Handle[C], error) {
	switch {
	case connect == nil:
		return nil, ErrNilConnector
	case uri == "":
		return nil, ErrEmptyConnectionURL
	case database == "":
		return nil, ErrEmptyDatabaseName
	case collection == "":
		return nil, ErrEmptyCollectionName
	}

	o := handleOptions{log: slog.Default(), disconnectTimeout: defaultDisconnectTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return &Handle[C]{
		uri:        uri,
		database:   database,
		collection: collection,
		connect:    connect,
		log: o.log.With(
			logger.Component("mongo.handle"),
			logger.Database(database),
		),
		disconnectTimeout: o.disconnectTimeout,
	}, nil
}

// WithCollection returns a handle for a sibling collection in the same
// database. The new handle reuses the client and database currently cached
// by h and starts with an empty collection cache.
func (h *Handle[C]) WithCollection(name string) (*Handle[C], error) {
	if name == "" {
		return nil, ErrEmptyCollectionName
	}

	h.mu.Lock()
	client, db := h.client, h.db
	h.mu.Unlock()

	return &Handle[C]{
		uri:               h.uri,
		database:          h.database,
		collection:        name,
		connect:           h.connect,
		log:               h.log,
		disconnectTimeout: h.disconnectTimeout,
		client:            client,
		db:                db,
	}, nil
}

func (h *Handle[C]) URI() string            { return h.uri }
func (h *Handle[C]) DatabaseName() string   { return h.database }
func (h *Handle[C]) CollectionName() string { return h.collection }

// Client returns the cached client, dialing a new one when none is cached or
// the cached one is no longer active.
func (h *Handle[C]) Client(ctx context.Context) (Client[C], error) {
	h.mu.Lock()
	defer h.unlock(ctx)

	client, _, err := h.resolveClient(ctx)
	return client, err
}

// Database returns the cached database, fetching it again from the client
// when none is cached or the client had to be replaced.
func (h *Handle[C]) Database(ctx context.Context) (Database[C], error) {
	h.mu.Lock()
	defer h.unlock(ctx)

	db, _, err := h.resolveDatabase(ctx)
	return db, err
}

// Collection returns the cached collection, fetching it again from the
// database when none is cached or the client had to be replaced.
func (h *Handle[C]) Collection(ctx context.Context) (C, error) {
	h.mu.Lock()
	defer h.unlock(ctx)

	return h.resolveCollection(ctx)
}

// Close disconnects the cached client and empties every cache.
func (h *Handle[C]) Close(ctx context.Context) error {
	h.mu.Lock()
	client := h.client
	h.client, h.db = nil, nil
	h.dropCollection()
	h.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// Do runs op against the collection, see Execute.
func (h *Handle[C]) Do(ctx context.Context, op func(context.Context, C) error) error {
	_, err := Execute(ctx, h, func(ctx context.Context, coll C) (struct{}, error) {
		return struct{}{}, op(ctx, coll)
	})
	return err
}

// Execute runs op against the cached collection, resolving one first when
// nothing is cached. If the attempt fails with a connection error the cached
// collection is dropped and op is tried once more against a freshly resolved
// one. The second error, if any, is returned as is. Other errors are
// returned immediately.
func Execute[C, R any](ctx context.Context, h *Handle[C], op func(context.Context, C) (R, error)) (R, error) {
	res, err := attempt(ctx, h, op)
	if err == nil || !IsConnectionError(err) || ctx.Err() != nil {
		return res, err
	}

	h.log.WarnContext(ctx, "mongo connection error, retrying with a fresh collection",
		logger.Collection(h.collection),
		logger.Error(err),
	)

	h.mu.Lock()
	h.dropCollection()
	h.mu.Unlock()

	return attempt(ctx, h, op)
}

func attempt[C, R any](ctx context.Context, h *Handle[C], op func(context.Context, C) (R, error)) (R, error) {
	h.mu.Lock()
	coll, ok := h.coll, h.hasColl
	var err error
	if !ok {
		coll, err = h.resolveCollection(ctx)
	}
	h.unlock(ctx)

	if err != nil {
		var zero R
		return zero, err
	}
	return op(ctx, coll)
}

// resolveClient reports whether the client was replaced. Callers hold h.mu
// and release it through unlock.
func (h *Handle[C]) resolveClient(ctx context.Context) (Client[C], bool, error) {
	if h.client != nil && h.client.IsActive() {
		return h.client, false, nil
	}

	h.log.DebugContext(ctx, "dialing mongo", slog.String("uri", redact(h.uri)))
	client, err := h.connect(ctx, h.uri)
	if err != nil {
		return nil, false, err
	}

	if h.client != nil {
		h.stale = h.client
	}
	h.client = client
	return client, true, nil
}

func (h *Handle[C]) resolveDatabase(ctx context.Context) (Database[C], bool, error) {
	client, refreshed, err := h.resolveClient(ctx)
	if err != nil {
		return nil, false, err
	}
	if h.db == nil || refreshed {
		h.db = client.Database(h.database)
	}
	return h.db, refreshed, nil
}

func (h *Handle[C]) resolveCollection(ctx context.Context) (C, error) {
	db, refreshed, err := h.resolveDatabase(ctx)
	if err != nil {
		var zero C
		return zero, err
	}
	if !h.hasColl || refreshed {
		h.coll, h.hasColl = db.Collection(h.collection), true
	}
	return h.coll, nil
}

// unlock releases h.mu, then disconnects the client replaced while it was
// held, if any.
func (h *Handle[C]) unlock(ctx context.Context) {
	stale := h.stale
	h.stale = nil
	h.mu.Unlock()

	if stale == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.disconnectTimeout)
	defer cancel()
	if err := stale.Disconnect(ctx); err != nil {
		h.log.WarnContext(ctx, "failed to disconnect stale mongo client", logger.Error(err))
	}
}

func (h *Handle[C]) dropCollection() {
	var zero C
	h.coll, h.hasColl = zero, false
}

// redact hides the password of a connection string for logging.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparsable uri>"
	}
	return u.Redacted()
}
