package planner

import (
	"bytes"
	_ "embed"
	"strconv"
	"strings"
	"text/template"
)

//go:embed generate_prompt.md
var generatePrompt string

type promptData struct {
	Meals       int
	Calories    string
	Dietary     string
	Ingredients string
}

// buildGeneratePrompt renders the day-plan prompt for a validated request.
// The same prompt is used for every day of the request.
func buildGeneratePrompt(req GenerationRequest) (string, error) {
	tmpl, err := template.New("Generate").Parse(generatePrompt)
	if err != nil {
		return "", err
	}

	data := promptData{
		Meals:       req.MealsPerDay,
		Calories:    strconv.FormatFloat(req.TargetCalories, 'f', -1, 64),
		Dietary:     req.Dietary,
		Ingredients: strings.Join(req.Ingredients, ", "),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
