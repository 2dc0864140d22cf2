package engine

import (
	"context"

	"ferry/internal/events"
	"ferry/internal/workflow"
)

type Engine struct {
	runner *workflow.Runner
	events *events.Publisher
	ref    string
}

// Run executes the configured migration once and releases the engine's
// resources.
func (e *Engine) Run(ctx context.Context) error {
	defer e.Close()
	return e.runner.Run(ctx, e.ref)
}

func (e *Engine) Close() error {
	err := e.runner.Close()
	if cerr := e.events.Close(); err == nil {
		err = cerr
	}
	return err
}
