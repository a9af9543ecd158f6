// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"strings"
)

// Artifact is a named output of a [Task]. Simulation responses are recorded
// as "{agent}_response" artifacts; failures as "simulation_error".
type Artifact struct {
	// ArtifactID is the unique artifact id.
	ArtifactID string `json:"artifactId"`

	// Name is the artifact name, carrying the source-agent attribution.
	Name string `json:"name,omitzero"`

	// Description is a one-line human-readable description.
	Description string `json:"description,omitzero"`

	// Parts is the artifact content.
	Parts []*Part `json:"parts"`
}

// NewArtifact creates a single-part text artifact with a fresh id.
func NewArtifact(name, description, text string) *Artifact {
	return &Artifact{
		ArtifactID:  NewArtifactID(),
		Name:        name,
		Description: description,
		Parts:       []*Part{NewTextPart(text)},
	}
}

// NewResponseArtifact creates the response artifact for agentName with the
// runtime's attribution convention.
func NewResponseArtifact(agentName, text string) *Artifact {
	return NewArtifact(agentName+"_response", "Response from "+agentName, text)
}

// Text returns the concatenated text content of the artifact.
func (a *Artifact) Text() string {
	if a == nil || len(a.Parts) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range a.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
