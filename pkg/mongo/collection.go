package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ActiveCollection is a Handle over *mongo.Collection that can stand in for
// the collection itself. Its forwarding methods resolve the collection and
// call the driver directly: they do not retry. Wrap calls in Do or Execute
// when the single retry on connection errors is wanted.
type ActiveCollection struct {
	*Handle[*mongo.Collection]
}

// NewActiveCollection returns a lazy handle to database.collection on the
// deployment described by cfg. Replaced clients are released within
// cfg.DisconnectTimeout unless opts override it.
func NewActiveCollection(cfg Config, database, collection string, opts ...Option) (*ActiveCollection, error) {
	opts = append([]Option{WithDisconnectTimeout(cfg.DisconnectTimeout)}, opts...)
	h, err := NewHandle(NewConnector(cfg), cfg.ConnectionURL, database, collection, opts...)
	if err != nil {
		return nil, err
	}
	return &ActiveCollection{Handle: h}, nil
}

// NewActiveCollectionFromConfig is NewActiveCollection with the database and
// collection names taken from cfg.
func NewActiveCollectionFromConfig(cfg Config, opts ...Option) (*ActiveCollection, error) {
	return NewActiveCollection(cfg, cfg.Database, cfg.Collection, opts...)
}

// WithCollection returns a sibling collection sharing the cached client and
// database of c.
func (c *ActiveCollection) WithCollection(name string) (*ActiveCollection, error) {
	h, err := c.Handle.WithCollection(name)
	if err != nil {
		return nil, err
	}
	return &ActiveCollection{Handle: h}, nil
}

// Ping checks the primary through the retrying path.
func (c *ActiveCollection) Ping(ctx context.Context) error {
	return c.Do(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.Database().Client().Ping(ctx, readpref.Primary())
	})
}

func (c *ActiveCollection) Name() string {
	return c.CollectionName()
}

// FindOne mirrors mongo.Collection.FindOne. A resolution failure is reported
// through the returned result's Err.
func (c *ActiveCollection) FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult {
	coll, err := c.Collection(ctx)
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	return coll.FindOne(ctx, filter, opts...)
}

func (c *ActiveCollection) Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.Find(ctx, filter, opts...)
}

func (c *ActiveCollection) InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.InsertOne(ctx, document, opts...)
}

func (c *ActiveCollection) InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.InsertMany(ctx, documents, opts...)
}

func (c *ActiveCollection) UpdateOne(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.UpdateOne(ctx, filter, update, opts...)
}

func (c *ActiveCollection) UpdateMany(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongo.UpdateResult, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.UpdateMany(ctx, filter, update, opts...)
}

func (c *ActiveCollection) ReplaceOne(ctx context.Context, filter, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.ReplaceOne(ctx, filter, replacement, opts...)
}

func (c *ActiveCollection) DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.DeleteOne(ctx, filter, opts...)
}

func (c *ActiveCollection) DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.DeleteMany(ctx, filter, opts...)
}

func (c *ActiveCollection) CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, filter, opts...)
}

func (c *ActiveCollection) Aggregate(ctx context.Context, pipeline any, opts ...options.Lister[options.AggregateOptions]) (*mongo.Cursor, error) {
	coll, err := c.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return coll.Aggregate(ctx, pipeline, opts...)
}
