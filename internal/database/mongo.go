package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect establishes a MongoDB client with a 10-second connection timeout
// and verifies it with a ping. The returned cleanup disconnects the client;
// call it on shutdown.
//
//	client, cleanup, err := database.Connect(cfg.MongoURI)
//	if err != nil { … }
//	defer cleanup()
func Connect(uri string) (*mongo.Client, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		// Disconnect on ping failure to avoid leaking sockets.
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	cleanup := func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = client.Disconnect(shutdownCtx)
	}
	return client, cleanup, nil
}
