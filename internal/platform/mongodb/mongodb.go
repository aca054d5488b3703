// Package mongodb dials the document store that holds order archives.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a MongoDB client and verifies connectivity.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// ConnectIfConfigured dials MongoDB when a URI is configured. A missing URI
// yields a nil client and no error, letting the caller fall back to the
// in-memory archive. A configured URI that cannot be reached is an error.
func ConnectIfConfigured(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, func(), error) {
	if strings.TrimSpace(uri) == "" {
		if logger != nil {
			logger.Warn("MONGO_URI not set, falling back to in-memory archive store")
		}
		return nil, func() {}, nil
	}
	client, err := Connect(ctx, uri)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect mongo: %w", err)
	}
	if logger != nil {
		logger.Info("mongo connection established")
	}
	return client, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}, nil
}
