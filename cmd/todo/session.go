package main

import (
	"context"
	"fmt"
	"log/slog"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/gateway"
	"todo/internal/gateway/googletasks"
	"todo/internal/gateway/httpgw"
	"todo/internal/orchestrator"
	"todo/internal/task"
)

// newGateway builds the confirmation gateway selected by gateway.mode.
func newGateway(ctx context.Context, cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.Gateway.Mode {
	case config.ModeStatic:
		return gateway.Static{StatusCode: cfg.Gateway.StatusCode}, nil
	case config.ModeGoogle:
		gw, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("google gateway: %w", err)
		}
		return gw, nil
	case config.ModeHTTP:
		var opts []httpgw.Option
		if cfg.Gateway.Token != "" {
			opts = append(opts, httpgw.WithBearerToken(ctx, cfg.Gateway.Token))
		}
		return httpgw.New(cfg.Gateway.URL, opts...), nil
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", cfg.Gateway.Mode)
	}
}

// newOrchestrator wires a fresh store to the gateway and seeds it, from the
// remote list in google mode and from cfg otherwise.
func newOrchestrator(ctx context.Context, cfg *config.Config) (*orchestrator.Orchestrator, error) {
	gw, err := newGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := task.NewStore()
	orch := orchestrator.New(store, gw, orchestrator.WithLogger(slog.Default()))
	if err := orch.Seed(ctx, cfg.Seeds...); err != nil {
		return nil, err
	}
	slog.Debug("session started", "mode", cfg.Gateway.Mode, "tasks", store.Len())
	return orch, nil
}

func sessionFactory(ctx context.Context, cfg *config.Config) (commands.Session, error) {
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return orch, nil
}

func newDispatcher() *cli.Dispatcher {
	return cli.NewDispatcher(commands.DefaultRegistry, cfg, sessionFactory)
}
