package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DayPlan is one generated day: an ordered sequence of meal slots. The model
// returns a JSON object keyed "day" whose meal slots are iterated in document
// order, so the slots are kept as a sequence rather than a map.
type DayPlan struct {
	Meals []MealEntry
}

// MealEntry pairs a meal-slot identifier (e.g. "meal1") with its meal.
type MealEntry struct {
	Slot string
	Meal Meal
}

// Meal is a single generated meal. Calories and ingredient quantities are kept
// as the literal text the model produced, number or string.
type Meal struct {
	Title       string
	Calories    string
	Ingredients []IngredientEntry
	Preparation string
	Macros      json.RawMessage
}

// IngredientEntry pairs an ingredient name with its quantity text.
type IngredientEntry struct {
	Name     string
	Quantity string
}

// ParsePlan decodes the raw per-day JSON documents of a generated plan, in
// order. Any malformed document fails the whole plan.
func ParsePlan(rawDays []string) ([]DayPlan, error) {
	plan := make([]DayPlan, 0, len(rawDays))
	for i, raw := range rawDays {
		var day DayPlan
		if err := json.Unmarshal([]byte(raw), &day); err != nil {
			return nil, &DecodeError{Day: i + 1, Err: err}
		}
		plan = append(plan, day)
	}
	return plan, nil
}

// MarshalPlan encodes a parsed plan back to per-day JSON documents, preserving
// slot and ingredient order.
func MarshalPlan(plan []DayPlan) ([]string, error) {
	rawDays := make([]string, 0, len(plan))
	for i, day := range plan {
		data, err := json.Marshal(day)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal day %d: %w", i+1, err)
		}
		rawDays = append(rawDays, string(data))
	}
	return rawDays, nil
}

// UnmarshalJSON decodes a {"day": {slot: meal, ...}} document, preserving the
// order in which meal slots appear.
func (d *DayPlan) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("day plan must be a JSON object: %w", err)
	}

	var sawDay bool
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return err
		}
		if key != "day" {
			if err := skipValue(dec); err != nil {
				return err
			}
			continue
		}

		sawDay = true
		meals, err := parseMeals(dec)
		if err != nil {
			return err
		}
		d.Meals = meals
	}

	if !sawDay {
		return fmt.Errorf(`day plan has no "day" key`)
	}
	return nil
}

// MarshalJSON re-emits the {"day": {...}} document with slots in order.
func (d DayPlan) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"day":{`)
	for i, entry := range d.Meals {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, entry.Slot); err != nil {
			return nil, err
		}
		mealData, err := json.Marshal(entry.Meal)
		if err != nil {
			return nil, err
		}
		buf.Write(mealData)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a meal object, preserving ingredient order.
func (m *Meal) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("meal must be a JSON object: %w", err)
	}

	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return err
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("invalid %q value: %w", key, err)
		}

		switch key {
		case "title":
			if err := json.Unmarshal(raw, &m.Title); err != nil {
				return fmt.Errorf("meal title must be a string: %w", err)
			}
		case "calories":
			m.Calories = scalarText(raw)
		case "ingredients":
			ingredients, err := parseIngredients(raw)
			if err != nil {
				return err
			}
			m.Ingredients = ingredients
		case "preparation":
			if err := json.Unmarshal(raw, &m.Preparation); err != nil {
				return fmt.Errorf("meal preparation must be a string: %w", err)
			}
		case "macros":
			m.Macros = raw
		}
	}
	return nil
}

// MarshalJSON re-emits the meal object with ingredients in order. Calories are
// written back as a number when they were one.
func (m Meal) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"title":`)
	title, err := json.Marshal(m.Title)
	if err != nil {
		return nil, err
	}
	buf.Write(title)

	buf.WriteString(`,"calories":`)
	buf.WriteString(scalarLiteral(m.Calories))

	buf.WriteString(`,"ingredients":{`)
	for i, ing := range m.Ingredients {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, ing.Name); err != nil {
			return nil, err
		}
		buf.WriteString(scalarLiteral(ing.Quantity))
	}
	buf.WriteByte('}')

	buf.WriteString(`,"preparation":`)
	prep, err := json.Marshal(m.Preparation)
	if err != nil {
		return nil, err
	}
	buf.Write(prep)

	buf.WriteString(`,"macros":`)
	if len(m.Macros) == 0 {
		buf.WriteString("null")
	} else {
		buf.Write(m.Macros)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// parseMeals reads the {slot: meal, ...} object positioned next in the stream.
func parseMeals(dec *json.Decoder) ([]MealEntry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf(`"day" value must be a JSON object: %w`, err)
	}

	var meals []MealEntry
	for dec.More() {
		slot, err := objectKey(dec)
		if err != nil {
			return nil, err
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid meal %q: %w", slot, err)
		}

		var meal Meal
		if err := json.Unmarshal(raw, &meal); err != nil {
			return nil, fmt.Errorf("invalid meal %q: %w", slot, err)
		}

		meals = append(meals, MealEntry{Slot: slot, Meal: meal})
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return meals, nil
}

// parseIngredients reads a {name: quantity, ...} object, preserving order.
func parseIngredients(raw json.RawMessage) ([]IngredientEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("meal ingredients must be a JSON object: %w", err)
	}

	var ingredients []IngredientEntry
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid quantity for %q: %w", name, err)
		}

		ingredients = append(ingredients, IngredientEntry{Name: name, Quantity: scalarText(value)})
	}
	return ingredients, nil
}

// scalarText returns the plain text of a scalar JSON value: strings are
// unquoted, anything else is kept verbatim.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// scalarLiteral is the inverse of scalarText: values that are valid JSON
// numbers are emitted bare, everything else as a quoted string.
func scalarLiteral(text string) string {
	var n json.Number
	if err := json.Unmarshal([]byte(text), &n); err == nil {
		return text
	}
	quoted, err := json.Marshal(text)
	if err != nil {
		return `""`
	}
	return string(quoted)
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte(':')
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// skipValue consumes and discards the next value in the stream.
func skipValue(dec *json.Decoder) error {
	var raw json.RawMessage
	return dec.Decode(&raw)
}
