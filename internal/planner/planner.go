package planner

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"foodie-planner/internal/llm"
)

// CallMeta holds operational metadata for one generation call.
type CallMeta struct {
	Usage   llm.TokenUsage
	Latency time.Duration
}

// GeneratedPlan is the result of a successful generation request: one raw JSON
// document per requested day, plus the eagerly parsed plan and per-call
// metadata.
type GeneratedPlan struct {
	RawDays []string
	Parsed  []DayPlan
	Calls   []CallMeta
}

// Planner runs the diet plan generation pipeline: request validation, one
// generation call per requested day, and aggregation of the day documents in
// request order.
type Planner struct {
	textGen llm.TextGenerator
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator) *Planner {
	return &Planner{textGen: textGen}
}

// GenerateDietPlan validates the payload and issues one sequential generation
// call per requested day. A failure on any day aborts the whole request;
// already generated days are discarded. Each response must parse as a day
// plan before the result is returned.
func (p *Planner) GenerateDietPlan(ctx context.Context, payload RequestPayload) (*GeneratedPlan, error) {
	req, err := payload.Validate()
	if err != nil {
		return nil, err
	}

	prompt, err := buildGeneratePrompt(req)
	if err != nil {
		return nil, err
	}

	result := &GeneratedPlan{
		RawDays: make([]string, 0, req.Days),
		Parsed:  make([]DayPlan, 0, req.Days),
		Calls:   make([]CallMeta, 0, req.Days),
	}

	for i := 0; i < req.Days; i++ {
		start := time.Now()
		resp, err := p.textGen.GenerateContent(ctx, prompt)
		if err != nil {
			return nil, &GenerationError{Day: i + 1, Err: err}
		}

		raw := strings.TrimSpace(resp.Content)

		var day DayPlan
		if err := json.Unmarshal([]byte(raw), &day); err != nil {
			return nil, &DecodeError{Day: i + 1, Err: err}
		}

		result.RawDays = append(result.RawDays, raw)
		result.Parsed = append(result.Parsed, day)
		result.Calls = append(result.Calls, CallMeta{
			Usage:   resp.Usage,
			Latency: time.Since(start),
		})
	}

	return result, nil
}
