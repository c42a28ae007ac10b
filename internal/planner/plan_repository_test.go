package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"foodie-planner/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(newTestDB(t).SQL)

	plan, err := ParsePlan([]string{sampleDayJSON})
	if err != nil {
		t.Fatalf("ParsePlan failed: %v", err)
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		if err := repo.Save(ctx, "user-1", "weekplan", plan); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := repo.Load(ctx, "user-1", "weekplan")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if FormatTranscript(loaded) != FormatTranscript(plan) {
			t.Error("Loaded plan does not format identically to the saved plan")
		}
	})

	t.Run("SaveDuplicateName", func(t *testing.T) {
		err := repo.Save(ctx, "user-1", "weekplan", plan)
		if !errors.Is(err, ErrDuplicateName) {
			t.Fatalf("Expected ErrDuplicateName, got %v", err)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := repo.Exists(ctx, "user-1", "weekplan")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if !exists {
			t.Error("Expected plan 'weekplan' to exist for user-1")
		}

		exists, err = repo.Exists(ctx, "user-2", "weekplan")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Error("Expected no plan 'weekplan' for user-2")
		}
	})

	t.Run("NamesAreScopedPerOwner", func(t *testing.T) {
		if err := repo.Save(ctx, "user-2", "weekplan", plan); err != nil {
			t.Fatalf("Save for a second owner failed: %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := repo.Save(ctx, "user-1", "cutting", plan); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		plans, err := repo.List(ctx, "user-1")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(plans) != 2 {
			t.Fatalf("Expected 2 plans, got %d", len(plans))
		}
		if plans[0].Name != "weekplan" || plans[1].Name != "cutting" {
			t.Errorf("Unexpected plan order: %+v", plans)
		}
		if plans[0].ID != plans[0].Name {
			t.Errorf("Expected ID to equal Name, got ID '%s' Name '%s'", plans[0].ID, plans[0].Name)
		}
	})

	t.Run("LoadNotFound", func(t *testing.T) {
		_, err := repo.Load(ctx, "user-1", "no-such-plan")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		if err := repo.Delete(ctx, "user-1", "cutting"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := repo.Delete(ctx, "user-1", "cutting"); err != nil {
			t.Fatalf("Deleting an already-deleted plan failed: %v", err)
		}
		if err := repo.Delete(ctx, "user-1", "never-existed"); err != nil {
			t.Fatalf("Deleting a never-existing plan failed: %v", err)
		}

		if _, err := repo.Load(ctx, "user-1", "cutting"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}
