// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

// AgentRole is the role an agent plays inside one simulation execution.
type AgentRole string

const (
	// RoleLeader coordinates the execution and may delegate to a team.
	RoleLeader AgentRole = "LEADER"

	// RoleFollower executes focused work inside its domain.
	RoleFollower AgentRole = "FOLLOWER"

	// RoleNarrator synthesizes multiple perspectives into a single
	// response.
	RoleNarrator AgentRole = "NARRATOR"
)

// RolePreference is an agent card's declared role preference.
type RolePreference int

const (
	// RolePreferenceUnspecified means the card declares no preference.
	RolePreferenceUnspecified RolePreference = 0

	// RolePreferenceLeader prefers the LEADER role.
	RolePreferenceLeader RolePreference = 1

	// RolePreferenceFollower prefers the FOLLOWER role.
	RolePreferenceFollower RolePreference = 2

	// RolePreferenceNarrator prefers the NARRATOR role.
	RolePreferenceNarrator RolePreference = 3
)

// Role maps the preference to its [AgentRole]. Unspecified preferences map
// to FOLLOWER, the safe default for team members.
func (p RolePreference) Role() AgentRole {
	switch p {
	case RolePreferenceLeader:
		return RoleLeader
	case RolePreferenceNarrator:
		return RoleNarrator
	default:
		return RoleFollower
	}
}

// String returns the preference name.
func (p RolePreference) String() string {
	switch p {
	case RolePreferenceLeader:
		return "LEADER"
	case RolePreferenceFollower:
		return "FOLLOWER"
	case RolePreferenceNarrator:
		return "NARRATOR"
	default:
		return "UNSPECIFIED"
	}
}
