// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package team forms and executes agent teams for one simulation input.
//
// A formation strategy draws members from the registry — [Random] samples
// distinct agents, [Homogeneous] replicates one agent, [Tarot] derives
// the team from a card spread — and the shared execution core runs the
// members concurrently at depth 1, isolating per-member failures. The
// team result is COMPLETED only when every member completed.
package team
