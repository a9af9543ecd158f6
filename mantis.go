// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package mantis is a recursive multi-agent simulation orchestrator: agents exchange
// structured A2A (agent-to-agent) messages, form ad-hoc teams, delegate sub-tasks
// recursively within an explicit depth budget, and synthesize the results into a
// single response.
package mantis

import (
	// for raw string prompt constants
	_ "github.com/MakeNowJust/heredoc/v2"
	// for prompt templating
	_ "github.com/google/dotprompt/go/dotprompt"
)

// Version is the version of mantis.
var Version = "v0.0.0"
