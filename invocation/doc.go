// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package invocation implements the recursive invocation protocol: agents
// calling other agents as nested simulations.
//
// The invoking agent's identity and remaining depth budget travel on the
// [context.Context] as a [Scope], so recursion tools can be registered
// statically and still know who is calling them. The [Invoker] validates
// the target against the registry, derives the child context id, caps the
// depth budget and aggregates the nested artifacts back onto the parent
// task.
package invocation
