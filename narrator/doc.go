// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package narrator synthesizes team member responses into one narrative.
//
// The base [Synthesizer] aggregates every member's answer attributed to
// its source agent and issues a single model call with the narrator
// persona; [Tarot] formats the members as card positions and narrates as
// the Master Tarot Reader. The synthesis call runs with an exhausted
// delegation budget, so a narrator never spawns further agents.
package narrator
