// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a implements the agent-to-agent wire protocol: a JSON-RPC 2.0
// client for delegating work to remote agents and an [http.Handler] that
// serves this process's agents to remote callers.
//
// The wire protocol exposes two methods. "message/send" accepts a user
// message and returns a task id immediately; processing continues
// asynchronously under a hard time budget. "tasks/get" reports the task's
// status, history and result. Agents advertise themselves through an agent
// card at /.well-known/agent.json.
//
// Wire task states are lowercase (pending, running, completed, failed,
// cancelled) and map onto [types.TaskState]; SUBMITTED crosses the wire as
// "pending" and WORKING as "running".
package a2a
