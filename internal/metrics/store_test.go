package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"foodie-planner/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestMetricsStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("RecordAndAggregate", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			err := store.Record(ctx, ExecutionMetric{
				Model:            "test-model",
				PromptTokens:     100,
				CompletionTokens: 200,
				LatencyMS:        1500,
			})
			if err != nil {
				t.Fatalf("Record failed: %v", err)
			}
		}

		usage, err := store.GetDailyUsage(ctx, 7)
		if err != nil {
			t.Fatalf("GetDailyUsage failed: %v", err)
		}
		if len(usage) != 1 {
			t.Fatalf("Expected 1 day of usage, got %d", len(usage))
		}
		if usage[0].TotalCalls != 3 {
			t.Errorf("Expected 3 calls, got %d", usage[0].TotalCalls)
		}
		if usage[0].TotalPrompt != 300 || usage[0].TotalCompletion != 600 {
			t.Errorf("Unexpected token totals: %+v", usage[0])
		}
	})

	t.Run("CleanupRemovesOldRecords", func(t *testing.T) {
		err := store.Record(ctx, ExecutionMetric{
			Model:     "test-model",
			Timestamp: time.Now().UTC().AddDate(0, 0, -60),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		removed, err := store.Cleanup(ctx, 30)
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if removed != 1 {
			t.Errorf("Expected 1 removed record, got %d", removed)
		}

		// Recent records survive.
		usage, err := store.GetDailyUsage(ctx, 7)
		if err != nil {
			t.Fatalf("GetDailyUsage failed: %v", err)
		}
		if len(usage) != 1 || usage[0].TotalCalls != 3 {
			t.Errorf("Expected recent records to remain, got %+v", usage)
		}
	})
}
