// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// Collection names shared by the feature repositories.
const (
	CollectionMedia             = "media"
	CollectionPosts             = "posts"
	CollectionFollows           = "follows"
	CollectionNotifications     = "notifications"
	CollectionMessages          = "messages"
	CollectionStories           = "stories"
	CollectionBookmarks         = "bookmarks"
	CollectionProfiles          = "profiles"
	CollectionPushSubscriptions = "push_subscriptions"
)

// Client wraps a connected mongo client bound to one database.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials MongoDB using cfg and verifies the connection with a ping.
func Connect(ctx context.Context, cfg platformconfig.MongoConfig) (*Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	if cfg.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		clientOptions.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.ConnectTimeout > 0 {
		clientOptions.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		clientOptions.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Connected to MongoDB database %s", cfg.Database)
	return &Client{client: client, database: client.Database(cfg.Database)}, nil
}

// Collection returns a handle on the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Database returns the bound database.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting at most five seconds.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// IndexSpec declares the indexes one collection needs.
type IndexSpec struct {
	Collection string
	Models     []mongo.IndexModel
}

// EnsureIndexes creates every declared index. Existing identical indexes are a no-op.
func (c *Client) EnsureIndexes(ctx context.Context, specs ...IndexSpec) error {
	for _, spec := range specs {
		if len(spec.Models) == 0 {
			continue
		}
		if _, err := c.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.Collection, err)
		}
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNoDocuments reports whether err means the query matched nothing.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
