// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt composes agent prompts from prioritized modules and
// reusable templates.
//
// The package has two layers. The composition layer assembles the system
// prompt an agent executes under; the contextual layer assembles the user
// message that carries the task.
//
// # Composition
//
// A [Composer] renders an ordered set of [Module] values against a
// [Context] and blends the sections into one prompt:
//
//	composer := prompt.NewComposer()
//	c := prompt.NewContext(agent, input, execution)
//	composed := composer.Compose(ctx, c)
//	// composed.FinalPrompt, composed.ModulesUsed
//
// The core modules, in priority order:
//
//   - persona (1000): the agent's identity, from the card's persona text
//   - role (800): instructions for the assigned LEADER/FOLLOWER/NARRATOR role
//   - leader (700): depth-aware leadership guidance, leaders only
//   - context (600): position in the simulation tree and its constraints
//   - capability (500): declared domains and methodologies
//
// Modules communicate through ${name} template variables resolved from
// the agent card, the simulation input and the execution slot; see
// [Substitute] for the formatting rules. Custom modules slot in through
// [WithModules].
//
// # Contextual prompts
//
// A [ContextualPrompt] assembles prefix sections, a persona block, the
// core content, task metadata and suffix sections into a single message
// body:
//
//	p := prompt.NewSimulationPromptWithAgent(query, agent, contextID, taskID)
//	msg := p.MessageTemplate(contextID, taskID)
//
// The exported template constants ([SimulationBasePrefix],
// [AgentCoordinationConstraints], the team and role contexts) are the
// vocabulary those prompts are built from; the team layer reuses them
// when it frames member executions.
package prompt
