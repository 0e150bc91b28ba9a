// Package mongo provides MongoDB connection handles that survive dropped
// connections and client re-creation.
//
// The central type is Handle, a lazy chain of client, database and
// collection. Nothing is dialed until the collection is first needed. Each
// level is memoized, and the whole chain is rebuilt as soon as the cached
// client reports itself inactive. Callers keep one handle for the lifetime of
// their component instead of re-resolving the chain on every call.
//
// ActiveCollection binds Handle to the official driver and forwards the
// usual collection methods, so it can replace a *mongo.Collection in code
// that does not need the retry guarantee.
//
// Key features:
//   - Lazy dialing with environment-driven configuration
//   - Liveness tracked from driver pool events, no extra round trips
//   - One transparent retry for operations that hit a connection error
//   - Sibling handles that share a client and database
//   - Health check integration for Kubernetes/Docker orchestration
//
// # Usage
//
//	import (
//		"context"
//		"github.com/dmitrymomot/activecollection/pkg/mongo"
//		"go.mongodb.org/mongo-driver/v2/bson"
//		driver "go.mongodb.org/mongo-driver/v2/mongo"
//	)
//
//	func main() {
//		cfg := mongo.Config{
//			ConnectionURL: "mongodb://localhost:27017",
//			RetryAttempts: 3,
//		}
//
//		users, err := mongo.NewActiveCollection(cfg, "app", "users")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer users.Close(context.Background())
//
//		// Retried once if the connection drops mid-flight.
//		n, err := mongo.Execute(ctx, users.Handle, func(ctx context.Context, c *driver.Collection) (int64, error) {
//			return c.CountDocuments(ctx, bson.D{})
//		})
//
//		// Same client and database, different collection.
//		sessions, err := users.WithCollection("sessions")
//		if err != nil {
//			log.Fatal(err)
//		}
//		_, _ = sessions.DeleteMany(ctx, bson.M{"expired": true})
//	}
//
// # Retry semantics
//
// Execute (and Do) run the operation against the cached collection. When the
// operation fails with an error for which IsConnectionError reports true, the
// cached collection is dropped and the operation runs once more against a
// freshly resolved one. The error of the second attempt is returned
// unchanged. Any other error is returned without retrying.
//
// # Concurrency
//
// The caches are protected by a mutex, operations run outside of it. Two
// goroutines hitting the same broken collection may each retry once.
//
// # See Also
//
// Documentation for the official driver: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2.
package mongo
