// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types_test

import (
	"strings"
	"testing"

	"github.com/go-a2a/mantis/types"
)

func TestRandomHex(t *testing.T) {
	got := types.RandomHex(12)
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}
	for _, r := range got {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("non-hex rune %q in %q", r, got)
		}
	}

	if types.RandomHex(8) == types.RandomHex(8) {
		t.Error("expected two draws to differ")
	}
}

func TestIDGenerators(t *testing.T) {
	if got := types.NewTaskID("ctx-42"); got != "sim-ctx-42" {
		t.Errorf("NewTaskID = %q, want %q", got, "sim-ctx-42")
	}

	ctxID := types.NewContextID()
	if !strings.HasPrefix(ctxID, "ctx-") || len(ctxID) != len("ctx-")+12 {
		t.Errorf("NewContextID = %q, want ctx- prefix with 12 hex chars", ctxID)
	}

	if got := types.NewMessageID(types.MessagePrefixResponse); !strings.HasPrefix(got, "resp-") {
		t.Errorf("NewMessageID = %q, want resp- prefix", got)
	}
	if got := types.NewMessageID(types.MessagePrefixError); !strings.HasPrefix(got, "error-") {
		t.Errorf("NewMessageID = %q, want error- prefix", got)
	}
	if got := types.NewArtifactID(); !strings.HasPrefix(got, "artifact-") {
		t.Errorf("NewArtifactID = %q, want artifact- prefix", got)
	}
	if got := types.NewErrorArtifactID(); !strings.HasPrefix(got, "error-") {
		t.Errorf("NewErrorArtifactID = %q, want error- prefix", got)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chief of Staff", "chief-of-staff"},
		{"researcher", "researcher"},
		{"The Fool", "the-fool"},
		{"A  B", "a--b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := types.Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestChildContextID(t *testing.T) {
	got := types.ChildContextID("ctx-1", "Chief of Staff")
	want := "ctx-1-recursive-chief-of-staff"
	if got != want {
		t.Errorf("ChildContextID = %q, want %q", got, want)
	}
}

func TestMemberContextID(t *testing.T) {
	got := types.MemberContextID("ctx-1", 2)
	if got != "ctx-1-member-2" {
		t.Errorf("MemberContextID = %q, want %q", got, "ctx-1-member-2")
	}
}

func TestIsChildContext(t *testing.T) {
	tests := []struct {
		name      string
		contextID string
		candidate string
		want      bool
	}{
		{"same context", "ctx-1", "ctx-1", true},
		{"recursive child", "ctx-1", "ctx-1-recursive-bob", true},
		{"recursive grandchild", "ctx-1", "ctx-1-recursive-bob-recursive-carol", true},
		{"team member", "ctx-1", "ctx-1-member-0", true},
		{"member of recursive child", "ctx-1", "ctx-1-recursive-bob-member-1", true},
		{"unrelated context", "ctx-1", "ctx-2", false},
		{"shared prefix only", "ctx-1", "ctx-10", false},
		{"parent of child", "ctx-1-recursive-bob", "ctx-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.IsChildContext(tt.contextID, tt.candidate); got != tt.want {
				t.Errorf("IsChildContext(%q, %q) = %v, want %v", tt.contextID, tt.candidate, got, tt.want)
			}
		})
	}
}
