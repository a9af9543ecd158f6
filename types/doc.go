// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package types defines the domain model of the mantis simulation runtime.
//
// It carries the A2A (agent-to-agent) wire shapes — [Task], [Message],
// [Artifact], [AgentCard] — together with the simulation-side request and
// response types ([SimulationInput], [SimulationOutput],
// [TeamExecutionRequest], [TeamExecutionResult]) and the service contracts
// ([TaskStore], [ArtifactService], [Tool], [Executor]) that the runtime
// packages implement.
//
// Types in this package are plain data: they hold no goroutines, perform no
// I/O and, with the exception of the append helpers on [Task], do not mutate
// themselves. Concurrency control is the job of the stores and services that
// own them.
package types
