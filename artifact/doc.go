// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact persists simulation artifacts with versioning.
//
// Both backends implement [types.ArtifactService]: [InMemoryService] for
// development and testing, [GCSService] for Google Cloud Storage. Artifacts
// are keyed hierarchically:
//
//	{appName}/{userID}/{contextID}/{name}  // context-scoped artifacts
//	{appName}/{userID}/user/{name}         // user-scoped ("user:" prefix)
//
// Every save appends a new integer version; loads address a version
// explicitly or pass a negative version for the latest.
package artifact
