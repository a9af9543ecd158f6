// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// ArtifactService represents an abstract base class for artifact services.
type ArtifactService interface {
	// SaveArtifact saves an artifact to the artifact service storage.
	//
	// The artifact is keyed by the app name, user ID, context ID and the
	// artifact's name. After saving the artifact, a revision ID is
	// returned to identify the artifact version.
	SaveArtifact(ctx context.Context, appName, userID, contextID string, artifact *Artifact) (int, error)

	// LoadArtifact gets an artifact from the artifact service storage.
	//
	// A negative version loads the latest revision.
	LoadArtifact(ctx context.Context, appName, userID, contextID, name string, version int) (*Artifact, error)

	// ListArtifactKey lists all the artifact names within a context.
	ListArtifactKey(ctx context.Context, appName, userID, contextID string) ([]string, error)

	// DeleteArtifact deletes an artifact.
	DeleteArtifact(ctx context.Context, appName, userID, contextID, name string) error

	// ListVersions lists all versions of an artifact.
	ListVersions(ctx context.Context, appName, userID, contextID, name string) ([]int, error)

	// Close closes the artifact service connection.
	Close() error
}
