// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-a2a/mantis/types"
)

// InMemoryService keeps artifact versions in process memory.
type InMemoryService struct {
	artifacts map[string][]*types.Artifact
	mu        sync.Mutex
}

var _ types.ArtifactService = (*InMemoryService)(nil)

// NewInMemoryService creates a new instance of [InMemoryService].
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		artifacts: make(map[string][]*types.Artifact),
	}
}

// hasUserNamespace checks if the artifact name has a user namespace.
func hasUserNamespace(name string) bool {
	return strings.HasPrefix(name, "user:")
}

// artifactPath constructs the artifact path.
func (a *InMemoryService) artifactPath(appName, userID, contextID, name string) string {
	if hasUserNamespace(name) {
		return fmt.Sprintf("%s/%s/user/%s", appName, userID, name)
	}
	return fmt.Sprintf("%s/%s/%s/%s", appName, userID, contextID, name)
}

// SaveArtifact implements [types.ArtifactService].
func (a *InMemoryService) SaveArtifact(ctx context.Context, appName, userID, contextID string, artifact *types.Artifact) (int, error) {
	if artifact == nil {
		return 0, fmt.Errorf("artifact cannot be nil")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, contextID, artifact.Name)
	version := len(a.artifacts[path])
	a.artifacts[path] = append(a.artifacts[path], artifact)

	return version, nil
}

// LoadArtifact implements [types.ArtifactService].
func (a *InMemoryService) LoadArtifact(ctx context.Context, appName, userID, contextID, name string, version int) (*types.Artifact, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, contextID, name)
	versions, ok := a.artifacts[path]
	if !ok {
		return nil, nil
	}
	if version < 0 {
		version = len(versions) - 1
	}
	if version >= len(versions) {
		return nil, nil
	}

	return versions[version], nil
}

// ListArtifactKey implements [types.ArtifactService].
func (a *InMemoryService) ListArtifactKey(ctx context.Context, appName, userID, contextID string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	contextPrefix := fmt.Sprintf("%s/%s/%s/", appName, userID, contextID)
	userNamespacePrefix := fmt.Sprintf("%s/%s/user/", appName, userID)

	names := []string{}
	for path := range a.artifacts {
		switch {
		case strings.HasPrefix(path, contextPrefix):
			names = append(names, strings.TrimPrefix(path, contextPrefix))

		case strings.HasPrefix(path, userNamespacePrefix):
			names = append(names, strings.TrimPrefix(path, userNamespacePrefix))
		}
	}
	slices.Sort(names)

	return names, nil
}

// DeleteArtifact implements [types.ArtifactService].
func (a *InMemoryService) DeleteArtifact(ctx context.Context, appName, userID, contextID, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.artifacts, a.artifactPath(appName, userID, contextID, name))

	return nil
}

// ListVersions implements [types.ArtifactService].
func (a *InMemoryService) ListVersions(ctx context.Context, appName, userID, contextID, name string) ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, contextID, name)
	versions, ok := a.artifacts[path]
	if !ok {
		return nil, nil
	}

	verList := make([]int, len(versions))
	for i := range versions {
		verList[i] = i
	}

	return verList, nil
}

// Close implements [types.ArtifactService].
func (a *InMemoryService) Close() error {
	// nothing to do
	return nil
}
