// Package mongo implements the storefront's persistence layer on a MongoDB
// document store. Users embed their cart as an array of lines; products
// embed their review list. All cart mutations are expressed as single
// filtered update operations so that concurrent requests for the same user
// cannot clobber each other's writes.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// DB bundles the database handle and the collection accessors used by the
// stores. Pass it explicitly into each store constructor; there is no
// package-level connection state.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials the MongoDB deployment at uri and verifies the connection
// with a ping.
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	return &DB{
		client:   client,
		database: client.Database(database),
	}, nil
}

// Close disconnects the underlying client.
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// Ping verifies the deployment is still reachable. The health endpoint
// calls this.
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) users() *mongo.Collection {
	return db.database.Collection("users")
}

func (db *DB) products() *mongo.Collection {
	return db.database.Collection("products")
}

func (db *DB) sessions() *mongo.Collection {
	return db.database.Collection("sessions")
}

// EnsureIndexes creates the indexes the stores rely on: the unique email
// index backs duplicate-signup rejection, and the TTL index expires stale
// sessions server-side.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	_, err := db.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    map[string]interface{}{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = db.products().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    map[string]interface{}{"id": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create products id index: %w", err)
	}

	_, err = db.sessions().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    map[string]interface{}{"token": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    map[string]interface{}{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}

	return nil
}
