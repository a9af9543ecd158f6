// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package executor dispatches agent executions. [Direct] runs an agent
// in-process through the model layer, with prompt composition and the
// function-call dispatch loop; [A2A] delegates the agent to a remote
// endpoint over the wire protocol and polls for its result.
//
// Both strategies resolve their agent through the registry and assign
// roles with the shared deterministic heuristic, so a simulation produces
// the same role assignments regardless of how it is dispatched.
package executor
