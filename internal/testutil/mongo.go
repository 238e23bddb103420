package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// ShouldRunDatabaseTests gates tests that need a live MongoDB.
func ShouldRunDatabaseTests() bool {
	return os.Getenv("RUN_DB_TESTS") == "1"
}

// NewMongoClient connects to MONGODB_URI with a throwaway database that is dropped when
// the test ends. specs are applied before returning.
func NewMongoClient(t *testing.T, specs ...mongodb.IndexSpec) *mongodb.Client {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	name := "friendflix_test_" + strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")[:12]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongodb.Connect(ctx, platformconfig.MongoConfig{
		URI:                    uri,
		Database:               name,
		ServerSelectionTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureIndexes(ctx, specs...))

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		_ = client.Database().Drop(dropCtx)
		_ = client.Close()
	})
	return client
}
