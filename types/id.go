// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Message id prefixes used across the runtime.
const (
	// MessagePrefixResponse marks a successful simulation response message.
	MessagePrefixResponse = "resp-"

	// MessagePrefixError marks an error-shaped response message.
	MessagePrefixError = "error-"

	// MessagePrefixAgent marks a message produced by a delegated agent.
	MessagePrefixAgent = "agent-resp-"
)

// RandomHex returns n hexadecimal characters drawn from a random UUID.
// n must be at most 32.
func RandomHex(n int) string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:n]
}

// NewTaskID returns the deterministic task id for a simulation context.
// One context maps to exactly one task.
func NewTaskID(contextID string) string {
	return "sim-" + contextID
}

// NewContextID returns a fresh simulation context id.
func NewContextID() string {
	return "ctx-" + RandomHex(12)
}

// NewMessageID returns a fresh message id with the given prefix, typically
// one of [MessagePrefixResponse], [MessagePrefixError] or
// [MessagePrefixAgent].
func NewMessageID(prefix string) string {
	return prefix + RandomHex(12)
}

// NewArtifactID returns a fresh artifact id.
func NewArtifactID() string {
	return "artifact-" + RandomHex(12)
}

// NewErrorArtifactID returns a fresh id for an error artifact.
func NewErrorArtifactID() string {
	return "error-" + RandomHex(12)
}

// Slug normalizes an agent name for use inside context ids: lowercased with
// spaces replaced by dashes.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// ChildContextID derives the context id for a recursive invocation of
// agentName below parentContextID.
func ChildContextID(parentContextID, agentName string) string {
	return parentContextID + "-recursive-" + Slug(agentName)
}

// MemberContextID derives the context id for team member index below
// parentContextID. Members need distinct contexts so that their tasks
// get distinct ids in the store.
func MemberContextID(parentContextID string, index int) string {
	return parentContextID + "-member-" + strconv.Itoa(index)
}

// IsChildContext reports whether candidate is contextID itself or a
// descendant derived from it by [ChildContextID] or [MemberContextID].
func IsChildContext(contextID, candidate string) bool {
	if candidate == contextID {
		return true
	}
	return strings.HasPrefix(candidate, contextID+"-recursive-") ||
		strings.HasPrefix(candidate, contextID+"-member-")
}
