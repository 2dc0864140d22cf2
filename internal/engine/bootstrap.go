package engine

import (
	"context"

	"ferry/internal/errs"
	"ferry/internal/events"
	"ferry/internal/telemetry"
	"ferry/internal/workflow"
)

type Config struct {
	SpecPath string
	Workflow string
	Ref      string

	MetricsPort  int    // 0 disables the metrics endpoint
	EventsConfig string // "" means env-only events config

	// Confirm answers destination confirmation prompts.
	Confirm func(prompt string) bool
}

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	// 1. workflow runner
	runner, err := workflow.Compile(cfg.SpecPath, cfg.Workflow, cfg.Confirm)
	if err != nil {
		return nil, errs.Wrap(err, "workflow")
	}

	// 2. audit events
	ecfg, err := events.LoadConfig(cfg.EventsConfig)
	if err != nil {
		return nil, errs.Wrap(err, "events")
	}
	pub, err := events.NewPublisher(ecfg)
	if err != nil {
		return nil, errs.Wrap(err, "events")
	}
	runner.SetEvents(pub)

	// 3. metrics
	if cfg.MetricsPort > 0 {
		telemetry.Expose(cfg.MetricsPort)
	}

	return &Engine{
		runner: runner,
		events: pub,
		ref:    cfg.Ref,
	}, nil
}
