package planner

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RequestPayload is the wire shape of a generation request. Day count, meal
// count and calorie target arrive loosely typed (JSON number or numeric
// string) and are coerced during validation.
type RequestPayload struct {
	Ingredients []string        `json:"ingredients"`
	Day         json.RawMessage `json:"day"`
	Meal        json.RawMessage `json:"meal"`
	Calories    json.RawMessage `json:"calories"`
	Dietary     string          `json:"dietary"`
}

// GenerationRequest is a validated, normalized generation request.
type GenerationRequest struct {
	Ingredients    []string
	Days           int
	MealsPerDay    int
	TargetCalories float64
	Dietary        string
}

// Validate checks that all required fields are present and coerces the loose
// numeric fields. Day count zero is allowed and yields an empty plan.
func (p RequestPayload) Validate() (GenerationRequest, error) {
	if len(p.Ingredients) == 0 || p.Day == nil || p.Meal == nil || p.Calories == nil {
		return GenerationRequest{}, &ValidationError{Reason: "missing required data"}
	}
	for _, ing := range p.Ingredients {
		if strings.TrimSpace(ing) == "" {
			return GenerationRequest{}, &ValidationError{Reason: "missing required data"}
		}
	}

	days, err := looseInt(p.Day)
	if err != nil || days < 0 {
		return GenerationRequest{}, &ValidationError{Reason: "day count must be a whole number"}
	}

	meals, err := looseInt(p.Meal)
	if err != nil || meals <= 0 {
		return GenerationRequest{}, &ValidationError{Reason: "missing required data"}
	}

	calories, err := looseFloat(p.Calories)
	if err != nil || calories <= 0 {
		return GenerationRequest{}, &ValidationError{Reason: "missing required data"}
	}

	return GenerationRequest{
		Ingredients:    p.Ingredients,
		Days:           days,
		MealsPerDay:    meals,
		TargetCalories: calories,
		Dietary:        strings.TrimSpace(p.Dietary),
	}, nil
}

// looseInt coerces a JSON number or numeric string to an int.
func looseInt(raw json.RawMessage) (int, error) {
	s, err := looseString(raw)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// looseFloat coerces a JSON number or numeric string to a float64.
func looseFloat(raw json.RawMessage) (float64, error) {
	s, err := looseString(raw)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// looseString unwraps a JSON string literal, or returns the raw text of any
// other scalar unchanged.
func looseString(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return text, nil
}
