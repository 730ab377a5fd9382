package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DB wraps the mongo client and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB, pings the primary and returns a handle to the
// application database.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &DB{client: client, db: client.Database(dbName)}, nil
}

// Collection returns a handle to a named collection.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Disconnect closes the underlying client.
func (d *DB) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the users collection relies on.
// Account and email uniqueness is enforced server-side, so concurrent
// signups cannot race past the application-level checks.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	users := d.Collection("users")

	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}
