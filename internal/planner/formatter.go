package planner

import (
	"fmt"
	"strings"
)

// FormatTranscript renders the full recipe transcript of a parsed plan: for
// each day, for each meal slot in order, the title, calorie line, ingredient
// lines and preparation text, with a blank line between meals.
func FormatTranscript(plan []DayPlan) string {
	var b strings.Builder

	for _, day := range plan {
		for _, entry := range day.Meals {
			meal := entry.Meal
			fmt.Fprintf(&b, "recipe Title: %s\n", meal.Title)
			fmt.Fprintf(&b, "calories: %s\n", meal.Calories)
			b.WriteString("ingredients:\n")
			for _, ing := range meal.Ingredients {
				fmt.Fprintf(&b, "- %s: %s\n", ing.Name, ing.Quantity)
			}
			b.WriteString("preparation:\n")
			fmt.Fprintf(&b, "%s\n\n", meal.Preparation)
		}
	}

	return b.String()
}

// FormatShoppingList renders the per-meal ingredient list of a parsed plan.
// Each meal gets a header numbered with the last character of its slot
// identifier, one ingredient per line, and a trailing blank line. Duplicate
// ingredients across meals and days are emitted verbatim, never merged.
func FormatShoppingList(plan []DayPlan) string {
	var b strings.Builder

	for _, day := range plan {
		for _, entry := range day.Meals {
			fmt.Fprintf(&b, "Meal %s:\n", slotNumber(entry.Slot))
			for _, ing := range entry.Meal.Ingredients {
				fmt.Fprintf(&b, "%s: %s,\n", ing.Name, ing.Quantity)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// slotNumber is the display number of a meal slot: the last character of its
// identifier.
func slotNumber(slot string) string {
	if slot == "" {
		return ""
	}
	runes := []rune(slot)
	return string(runes[len(runes)-1])
}
