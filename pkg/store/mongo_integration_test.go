//go:build integration

package store

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("LABYRINTH_MONGO_URI")
	if uri == "" {
		t.Skip("LABYRINTH_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "labyrinth_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: db})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	t.Cleanup(func() {
		_ = s.client.Database(db).Drop(ctx)
		_ = s.Close(ctx)
	})

	testStore(t, s)
}

func TestMongoStoreEmptyURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); err == nil {
		t.Fatal("expected error for empty URI")
	}
}
