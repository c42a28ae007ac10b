package planner

import (
	"encoding/json"
	"testing"
)

func TestValidateCoercion(t *testing.T) {
	t.Run("NumericStrings", func(t *testing.T) {
		payload := RequestPayload{
			Ingredients: []string{"chicken", "rice"},
			Day:         json.RawMessage(`"2"`),
			Meal:        json.RawMessage(`"3"`),
			Calories:    json.RawMessage(`"2000"`),
			Dietary:     " vegetarian ",
		}

		req, err := payload.Validate()
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if req.Days != 2 {
			t.Errorf("Expected 2 days, got %d", req.Days)
		}
		if req.MealsPerDay != 3 {
			t.Errorf("Expected 3 meals per day, got %d", req.MealsPerDay)
		}
		if req.TargetCalories != 2000 {
			t.Errorf("Expected 2000 calories, got %v", req.TargetCalories)
		}
		if req.Dietary != "vegetarian" {
			t.Errorf("Expected trimmed dietary requirements, got '%s'", req.Dietary)
		}
	})

	t.Run("JSONNumbers", func(t *testing.T) {
		payload := RequestPayload{
			Ingredients: []string{"chicken"},
			Day:         json.RawMessage(`5`),
			Meal:        json.RawMessage(`4`),
			Calories:    json.RawMessage(`1800.5`),
		}

		req, err := payload.Validate()
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if req.Days != 5 {
			t.Errorf("Expected 5 days, got %d", req.Days)
		}
		if req.TargetCalories != 1800.5 {
			t.Errorf("Expected 1800.5 calories, got %v", req.TargetCalories)
		}
	})

	t.Run("BlankStringDay", func(t *testing.T) {
		payload := RequestPayload{
			Ingredients: []string{"chicken"},
			Day:         json.RawMessage(`""`),
			Meal:        json.RawMessage(`3`),
			Calories:    json.RawMessage(`2000`),
		}

		if _, err := payload.Validate(); err == nil {
			t.Fatal("Expected an error for a blank day count, got nil")
		}
	})

	t.Run("NullDay", func(t *testing.T) {
		payload := RequestPayload{
			Ingredients: []string{"chicken"},
			Day:         json.RawMessage(`null`),
			Meal:        json.RawMessage(`3`),
			Calories:    json.RawMessage(`2000`),
		}

		if _, err := payload.Validate(); err == nil {
			t.Fatal("Expected an error for a null day count, got nil")
		}
	})

	t.Run("NegativeDays", func(t *testing.T) {
		payload := RequestPayload{
			Ingredients: []string{"chicken"},
			Day:         json.RawMessage(`-1`),
			Meal:        json.RawMessage(`3`),
			Calories:    json.RawMessage(`2000`),
		}

		if _, err := payload.Validate(); err == nil {
			t.Fatal("Expected an error for a negative day count, got nil")
		}
	})
}
