// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model_test

import (
	"testing"

	"github.com/go-a2a/mantis/model"
)

func TestGemini_GenerateContent(t *testing.T) {
	t.Skip()

	gemini, err := model.NewGemini(t.Context(), "", model.GeminiDefaultModel)
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	req := model.NewRequest(model.UserContent(`Handle the requests as specified in the System Instruction.`)).
		WithSystemInstruction(`Reply with a single word.`)
	got, err := gemini.GenerateContent(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error on GenerateContent: %v", err)
	}
	t.Logf("got: %#v", got.Text())

	if got.Text() == "" {
		t.Fatal("want non empty text")
	}
}
