// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package simulation runs simulations end to end.
//
// [Orchestrator] owns the task lifecycle of one simulation run: it creates
// the simulation task, dispatches the resolved agent through an executor,
// records the response in the task history and artifacts, and folds nested
// recursive outputs into the result tree. A simulation that fails still
// produces a well-formed [types.SimulationOutput] with the failure recorded
// on the task.
//
// [Service] is the outward boundary: it validates inputs before any task
// exists, forms and executes teams, optionally narrates team results, and
// answers status and health queries.
package simulation
