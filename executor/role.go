// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"github.com/go-a2a/mantis/types"
)

// roleScoreThreshold is the competency score above which an agent's
// leader or narrator preference wins over the follower default.
const roleScoreThreshold = 0.7

// DetermineAgentRole assigns the role for one agent execution. The
// heuristic is pure and deterministic: the root of a simulation leads,
// executions at the bottom of the depth budget follow, and in between the
// agent's competency scores decide.
func DetermineAgentRole(agent *types.AgentInterface, execution *types.ContextualExecution) types.AgentRole {
	if execution.CurrentDepth == 0 {
		return types.RoleLeader
	}
	if execution.CurrentDepth >= execution.MaxDepth-1 {
		return types.RoleFollower
	}

	leader := agent.LeaderScore()
	narrator := agent.NarratorScore()
	switch {
	case leader > narrator && leader > roleScoreThreshold:
		return types.RoleLeader
	case narrator > roleScoreThreshold:
		return types.RoleNarrator
	default:
		return types.RoleFollower
	}
}
