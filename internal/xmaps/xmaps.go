// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmaps provides small map helpers shared across the runtime.
package xmaps

import (
	"cmp"
	"maps"
	"slices"
)

// SortedKeys returns the keys of m in ascending order. Deterministic
// listings (context ids, tool names, agent names) are built with it.
func SortedKeys[Map ~map[K]V, K cmp.Ordered, V any](m Map) []K {
	return slices.Sorted(maps.Keys(m))
}
