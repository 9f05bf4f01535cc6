package vector

import (
	"context"
	"testing"
	"time"

	"github.com/engramhq/engram/pkg/config"
	"github.com/google/uuid"
)

func TestQdrantClient(t *testing.T) {
	cfg := &config.VectorConfig{Enabled: true, URL: "http://localhost:6333"}
	client := NewQdrantClient(cfg)

	t.Run("NewQdrantClient", func(t *testing.T) {
		if client == nil {
			t.Fatal("NewQdrantClient should not return nil")
		}
		if !client.IsEnabled() {
			t.Error("client should be enabled")
		}
		if client.CollectionName() != "engram-memories" {
			t.Errorf("expected collection name 'engram-memories', got %s", client.CollectionName())
		}
	})

	t.Run("DefaultURL", func(t *testing.T) {
		emptyClient := NewQdrantClient(&config.VectorConfig{Enabled: true})
		if emptyClient.baseURL != "http://localhost:6333" {
			t.Errorf("default URL should be 'http://localhost:6333', got %s", emptyClient.baseURL)
		}
		if emptyClient.CollectionName() != "engram-memories" {
			t.Errorf("default collection should be 'engram-memories', got %s", emptyClient.CollectionName())
		}
	})

	t.Run("DisabledClient", func(t *testing.T) {
		disabledClient := NewQdrantClient(&config.VectorConfig{Enabled: false})
		if disabledClient.IsEnabled() {
			t.Error("disabled client should not be enabled")
		}
		if disabledClient.IsAvailable() {
			t.Error("disabled client should not be available")
		}
	})
}

// TestQdrantClientIntegration exercises a live Qdrant instance when present;
// it is skipped otherwise so the suite runs without the external service.
func TestQdrantClientIntegration(t *testing.T) {
	cfg := &config.VectorConfig{Enabled: true, URL: "http://localhost:6333"}
	client := NewQdrantClient(cfg)

	if !client.IsAvailable() {
		t.Skip("Qdrant is not available, skipping integration tests")
	}

	const dim = 256

	t.Run("InitCollection", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := client.InitCollection(ctx, dim); err != nil {
			t.Fatalf("InitCollection failed: %v", err)
		}
		if err := client.InitCollection(ctx, dim); err != nil {
			t.Fatalf("second InitCollection failed: %v", err)
		}
	})

	testID := uuid.New().String()

	t.Run("UpsertAndSearch", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		vector := make([]float64, dim)
		for i := range vector {
			vector[i] = float64(i) / float64(dim)
		}

		if err := client.Upsert(ctx, testID, vector, map[string]interface{}{
			"content": "test memory content",
		}); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		results, err := client.Search(ctx, &SearchOptions{
			Vector:      vector,
			Limit:       5,
			WithPayload: true,
		})
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) == 0 {
			t.Error("expected at least one search result")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := client.Delete(ctx, []string{testID}); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		vector := make([]float64, dim)
		results, err := client.Search(ctx, &SearchOptions{Vector: vector, Limit: 10})
		if err != nil {
			t.Fatalf("search after delete failed: %v", err)
		}
		for _, r := range results {
			if r.ID == testID {
				t.Error("expected deleted point to be absent from search results")
			}
		}
	})
}
