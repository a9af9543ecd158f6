// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"github.com/bytedance/sonic"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/go-a2a/mantis/types"
)

// artifactContentType is the content type of stored artifact objects.
const artifactContentType = "application/json"

// GCSService persists artifact versions as Google Cloud Storage objects,
// one JSON-encoded object per version under "{path}/{version}".
type GCSService struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

var _ types.ArtifactService = (*GCSService)(nil)

// NewGCSService creates a new [GCSService] instance with the given bucket name.
func NewGCSService(ctx context.Context, bucketName string) (*GCSService, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			storage.ScopeFullControl,
			storage.ScopeReadWrite,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get credentials for storage: %w", err)
	}

	client, err := storage.NewGRPCClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSService{
		client: client,
		bucket: client.Bucket(bucketName),
	}, nil
}

// objectPath constructs the object path without the version suffix.
func (a *GCSService) objectPath(appName, userID, contextID, name string) string {
	if hasUserNamespace(name) {
		return fmt.Sprintf("%s/%s/user/%s", appName, userID, name)
	}
	return fmt.Sprintf("%s/%s/%s/%s", appName, userID, contextID, name)
}

// blobName constructs the object name of one artifact version.
func (a *GCSService) blobName(appName, userID, contextID, name string, version int) string {
	return fmt.Sprintf("%s/%d", a.objectPath(appName, userID, contextID, name), version)
}

// SaveArtifact implements [types.ArtifactService].
func (a *GCSService) SaveArtifact(ctx context.Context, appName, userID, contextID string, artifact *types.Artifact) (int, error) {
	if artifact == nil {
		return 0, fmt.Errorf("artifact cannot be nil")
	}

	versions, err := a.ListVersions(ctx, appName, userID, contextID, artifact.Name)
	if err != nil {
		return 0, err
	}
	version := 0
	if len(versions) > 0 {
		version = versions[len(versions)-1] + 1
	}

	data, err := sonic.ConfigFastest.Marshal(artifact)
	if err != nil {
		return 0, fmt.Errorf("encode artifact %q: %w", artifact.Name, err)
	}

	blob := a.bucket.Object(a.blobName(appName, userID, contextID, artifact.Name, version))
	w := blob.NewWriter(ctx)
	w.ContentType = artifactContentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return 0, fmt.Errorf("write artifact %q: %w", artifact.Name, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("write artifact %q: %w", artifact.Name, err)
	}

	return version, nil
}

// LoadArtifact implements [types.ArtifactService].
func (a *GCSService) LoadArtifact(ctx context.Context, appName, userID, contextID, name string, version int) (*types.Artifact, error) {
	if version < 0 {
		versions, err := a.ListVersions(ctx, appName, userID, contextID, name)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, nil
		}
		version = versions[len(versions)-1]
	}

	blob := a.bucket.Object(a.blobName(appName, userID, contextID, name, version))
	r, err := blob.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact %q: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read artifact %q: %w", name, err)
	}

	artifact := new(types.Artifact)
	if err := sonic.ConfigFastest.Unmarshal(data, artifact); err != nil {
		return nil, fmt.Errorf("decode artifact %q: %w", name, err)
	}
	return artifact, nil
}

// ListArtifactKey implements [types.ArtifactService].
//
// The context-scoped and user-scoped prefixes are listed in parallel.
func (a *GCSService) ListArtifactKey(ctx context.Context, appName, userID, contextID string) ([]string, error) {
	eg, ctx := errgroup.WithContext(ctx)

	contextNames := make(map[string]struct{})
	eg.Go(func() error {
		contextPrefix := fmt.Sprintf("%s/%s/%s/", appName, userID, contextID)
		return a.collectNames(ctx, contextPrefix, contextNames)
	})

	userNames := make(map[string]struct{})
	eg.Go(func() error {
		userNamespacePrefix := fmt.Sprintf("%s/%s/user/", appName, userID)
		return a.collectNames(ctx, userNamespacePrefix, userNames)
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(contextNames)+len(userNames))
	for name := range contextNames {
		names = append(names, name)
	}
	for name := range userNames {
		names = append(names, name)
	}
	slices.Sort(names)

	return slices.Compact(names), nil
}

// collectNames inserts the artifact names found under prefix into out.
// Object names have the form "{app}/{user}/{scope}/{name}/{version}".
func (a *GCSService) collectNames(ctx context.Context, prefix string, out map[string]struct{}) error {
	it := a.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		}

		if pairs := strings.Split(objAttrs.Name, "/"); len(pairs) == 5 {
			out[pairs[3]] = struct{}{}
		}
	}
}

// DeleteArtifact implements [types.ArtifactService].
func (a *GCSService) DeleteArtifact(ctx context.Context, appName, userID, contextID, name string) error {
	versions, err := a.ListVersions(ctx, appName, userID, contextID, name)
	if err != nil {
		return err
	}

	for _, version := range versions {
		blob := a.bucket.Object(a.blobName(appName, userID, contextID, name, version))
		if err := blob.Delete(ctx); err != nil {
			return fmt.Errorf("delete artifact %q version %d: %w", name, version, err)
		}
	}

	return nil
}

// ListVersions implements [types.ArtifactService].
func (a *GCSService) ListVersions(ctx context.Context, appName, userID, contextID, name string) ([]int, error) {
	prefix := a.objectPath(appName, userID, contextID, name) + "/"
	it := a.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	versions := []int{}
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}

		idx := strings.LastIndex(objAttrs.Name, "/")
		version, err := strconv.Atoi(objAttrs.Name[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("parse artifact version from %q: %w", objAttrs.Name, err)
		}
		versions = append(versions, version)
	}
	slices.Sort(versions)

	return versions, nil
}

// Close implements [types.ArtifactService].
func (a *GCSService) Close() error {
	return a.client.Close()
}
