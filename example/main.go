// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command example wires the full simulation stack and runs one query
// against it: task store, agent registry client, builtin tools with the
// recursion tools on top, a Claude-backed direct executor and the
// narrated team path.
//
// Usage:
//
//	example -query "What should we build next?" [flags]
//
// The ANTHROPIC_API_KEY environment variable must be set. With -serve the
// same stack is exposed as an A2A endpoint instead of running once.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-a2a/mantis/a2a"
	"github.com/go-a2a/mantis/invocation"
	"github.com/go-a2a/mantis/model"
	"github.com/go-a2a/mantis/narrator"
	"github.com/go-a2a/mantis/pkg/logging"
	"github.com/go-a2a/mantis/registry"
	"github.com/go-a2a/mantis/simulation"
	"github.com/go-a2a/mantis/task"
	"github.com/go-a2a/mantis/tool/tools"
	"github.com/go-a2a/mantis/types"
)

func main() {
	var (
		query        = flag.String("query", "What should we focus on next quarter?", "simulation query")
		agents       = flag.String("agents", "", "agent slots, e.g. 'The Fool:1:may' (empty resolves a coordinator)")
		maxDepth     = flag.Int("max-depth", types.DefaultMaxDepth, "recursion depth budget")
		modelSpec    = flag.String("model", types.DefaultModel, "model spec, 'provider:model'")
		registryURL  = flag.String("registry", types.DefaultRegistryURL, "agent registry base URL")
		teamStrategy = flag.String("team", "", "run as a team with this formation strategy (random, homogeneous, tarot)")
		teamSize     = flag.Int("team-size", types.DefaultTeamSize, "team size when -team is set")
		serve        = flag.String("serve", "", "serve the stack as an A2A endpoint on this address instead of running once")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := logging.NewContext(context.Background(), logger)

	if err := run(ctx, logger, *query, *agents, *maxDepth, *modelSpec, *registryURL, *teamStrategy, *teamSize, *serve); err != nil {
		logger.Error("example failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, query, agents string, maxDepth int, modelSpec, registryURL, teamStrategy string, teamSize int, serve string) error {
	store := task.NewStore(task.WithLogger(logger))
	agentRegistry := registry.NewClient(registryURL)

	toolRegistry := tools.NewBuiltinRegistry(&tools.Config{RegistryURL: registryURL})

	_, modelName := model.SplitModelSpec(modelSpec)
	llm, err := model.NewLLM(ctx, "", modelName)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}

	orchestrator, err := simulation.New(store,
		simulation.WithModel(llm),
		simulation.WithRegistry(agentRegistry),
		simulation.WithToolRegistry(toolRegistry),
		simulation.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create orchestrator: %w", err)
	}

	// The recursion tools close the loop: they dispatch back through the
	// orchestrator that owns the tool registry.
	invoker := invocation.NewInvoker(orchestrator, agentRegistry, store)
	if err := tools.RegisterRecursionTools(toolRegistry, invoker, agentRegistry, nil); err != nil {
		return fmt.Errorf("register recursion tools: %w", err)
	}

	service := simulation.NewService(orchestrator,
		simulation.WithNarrator(narrator.NewSynthesizer(orchestrator.Executor())),
		simulation.WithServiceLogger(logger),
	)

	if serve != "" {
		return serveA2A(ctx, logger, service, maxDepth, serve)
	}

	builder := types.NewSimulationInputBuilder().
		WithQuery(query).
		WithMaxDepth(maxDepth).
		WithModel(modelSpec)
	if agents != "" {
		builder = builder.WithAgents(agents)
	}
	if teamStrategy != "" {
		strategy, err := types.ParseTeamStrategy(teamStrategy)
		if err != nil {
			return err
		}
		builder = builder.WithTeamStrategy(strategy)
	}
	input, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build input: %w", err)
	}

	if teamStrategy != "" {
		return runTeam(ctx, service, input, teamSize)
	}
	return runSimulation(ctx, service, input)
}

func runSimulation(ctx context.Context, service *simulation.Service, input *types.SimulationInput) error {
	output, err := service.ProcessSimulationInput(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("context: %s\nstate:   %s\n", output.ContextID, output.FinalState)
	fmt.Printf("\n%s\n", output.ResponseText())
	for _, nested := range output.Results {
		fmt.Printf("\n-- nested %s (%s)\n%s\n", nested.ContextID, nested.FinalState, nested.ResponseText())
	}

	health, err := service.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\ntasks: %d, contexts: %d, tools: %d\n", health.ActiveTasks, health.ActiveContexts, health.Tools)
	return nil
}

func runTeam(ctx context.Context, service *simulation.Service, input *types.SimulationInput, teamSize int) error {
	result, err := service.ProcessTeamExecutionRequest(ctx, &types.TeamExecutionRequest{
		Input:             input,
		TeamSize:          teamSize,
		FormationStrategy: input.TeamStrategy,
	})
	if err != nil {
		return err
	}

	fmt.Printf("context: %s\nstate:   %s\n", result.ContextID, result.TeamFinalState)
	for _, member := range result.MemberResponses {
		fmt.Printf("\n== %s (%s)\n%s\n", member.AgentName, member.Role, member.Text())
	}
	return nil
}

// serveA2A exposes the service as an A2A endpoint: inbound message/send
// queries run as simulations under the server's processing budget.
func serveA2A(ctx context.Context, logger *slog.Logger, service *simulation.Service, maxDepth int, addr string) error {
	card := &types.AgentCard{
		Name:        "Mantis Simulation",
		Description: "Recursive multi-agent simulation endpoint",
		URL:         "http://" + addr,
	}
	server := a2a.NewServer(card, func(ctx context.Context, contextID, query string) (string, error) {
		output, err := service.ProcessSimulationInput(ctx, &types.SimulationInput{
			ContextID: contextID,
			Query:     query,
			MaxDepth:  maxDepth,
		})
		if err != nil {
			return "", err
		}
		if output.FinalState != types.TaskStateCompleted {
			return "", fmt.Errorf("simulation finished %s", output.FinalState)
		}
		return output.ResponseText(), nil
	})

	httpServer := &http.Server{Addr: addr, Handler: server}
	go func() {
		logger.Info("serving A2A endpoint", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("A2A server failed", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("drain in-flight tasks: %w", err)
	}
	return httpServer.Shutdown(shutdownCtx)
}
