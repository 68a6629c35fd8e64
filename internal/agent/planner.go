package agent

import (
	"context"

	"docindex/internal/logger"
)

// PlanSteps is the serial order in which the pipeline's agents run.
var PlanSteps = []string{
	"ingestion",
	"intent",
	"retrieval",
	"memory",
	"reasoning",
	"response",
	"guardrails",
}

// Planner decides the execution strategy. It ignores its payload.
type Planner struct{}

func (Planner) Name() string { return "planner" }

func (Planner) Run(ctx context.Context, _ Payload) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	steps := append([]string(nil), PlanSteps...)
	logger.Info("planned steps: %v", steps)
	return Result{"plan": map[string]any{"strategy": "serial", "steps": steps}}, nil
}
