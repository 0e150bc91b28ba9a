package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrEmptyConnectionURL     = errors.New("empty mongo connection url, use MONGODB_URL env var")
	ErrEmptyDatabaseName      = errors.New("empty mongo database name")
	ErrEmptyCollectionName    = errors.New("empty mongo collection name")
	ErrNilConnector           = errors.New("nil mongo connector")
)

// IsConnectionError reports whether err is a connection-level failure that
// justifies dropping cached handles and trying again: a failed dial, a
// disconnected client, or any driver error labelled as a network error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrFailedToConnectToMongo) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	return mongo.IsNetworkError(err)
}
