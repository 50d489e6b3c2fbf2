package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"repopilot/model"
)

// Executor runs tools exactly once each: validate, then execute. There is
// no retry and no internal timeout; a command that hangs blocks until the
// caller's context is canceled.
type Executor struct {
	log   *zap.Logger
	calls []model.ToolCall
}

// NewExecutor creates a new tool executor.
func NewExecutor() *Executor {
	return &Executor{log: zap.NewNop()}
}

// WithLogger sets the logger used for execution tracing.
func (e *Executor) WithLogger(log *zap.Logger) *Executor {
	e.log = log
	return e
}

// Execute validates and runs a tool once, recording call metrics.
func (e *Executor) Execute(ctx context.Context, tool Tool, args json.RawMessage) (ToolResult, error) {
	name := tool.Metadata().Name

	if err := tool.Validate(args); err != nil {
		result := FailureResult(fmt.Errorf("validation failed: %w", err))
		e.record(name, args, result, 0)
		return result, nil
	}

	start := time.Now()
	result, err := tool.Execute(ctx, args)
	elapsed := time.Since(start)
	if err != nil {
		return ToolResult{}, err
	}

	e.record(name, args, result, elapsed)
	e.log.Debug("tool executed",
		zap.String("tool", name),
		zap.Duration("duration", elapsed),
		zap.Bool("success", result.Success()),
	)
	return result, nil
}

// Calls returns the metrics of every call made through this executor, in
// invocation order.
func (e *Executor) Calls() []model.ToolCall {
	return e.calls
}

func (e *Executor) record(name string, args json.RawMessage, result ToolResult, elapsed time.Duration) {
	e.calls = append(e.calls, model.ToolCall{
		Name:       name,
		InputSize:  len(args),
		OutputSize: len(result.Output),
		DurationMs: uint64(elapsed.Milliseconds()),
		Success:    result.Success(),
	})
}
