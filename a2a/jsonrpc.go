// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// JSONRPCVersion is the protocol version stamped on every request and
// response.
const JSONRPCVersion = "2.0"

// JSON-RPC error codes. The negative-32000 range carries the A2A
// application errors; the rest are the standard protocol codes.
const (
	// CodeServerError reports a processing failure.
	CodeServerError = -32000

	// CodeTaskNotFound reports a tasks/get lookup of an unknown task id.
	CodeTaskNotFound = -32001

	// CodeParseError reports an unparsable request body.
	CodeParseError = -32700

	// CodeInvalidRequest reports a malformed JSON-RPC envelope.
	CodeInvalidRequest = -32600

	// CodeMethodNotFound reports an unsupported method.
	CodeMethodNotFound = -32601

	// CodeInvalidParams reports malformed method parameters.
	CodeInvalidParams = -32602
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitzero"`
	ID      any             `json:"id"`
}

// NewRequest creates a request for method, marshaling params into the
// envelope.
func NewRequest(id any, method string, params any) (*Request, error) {
	req := &Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		ID:      id,
	}
	if params != nil {
		data, err := sonic.ConfigFastest.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal %s params: %w", method, err)
		}
		req.Params = data
	}
	return req, nil
}

// Response is a JSON-RPC 2.0 response envelope. Exactly one of Result and
// Error is populated.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitzero"`
	Error   *Error          `json:"error,omitzero"`
	ID      any             `json:"id"`
}

// NewResponse creates a success response carrying result.
func NewResponse(id any, result any) (*Response, error) {
	data, err := sonic.ConfigFastest.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Response{
		JSONRPC: JSONRPCVersion,
		Result:  data,
		ID:      id,
	}, nil
}

// NewErrorResponse creates an error response with the given code and
// message.
func NewErrorResponse(id any, code int, message string) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	}
}

// DecodeResult unmarshals the response result into out, surfacing a wire
// error as *[Error].
func (r *Response) DecodeResult(out any) error {
	if r.Error != nil {
		return r.Error
	}
	if len(r.Result) == 0 {
		return fmt.Errorf("response carries no result")
	}
	if err := sonic.ConfigFastest.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitzero"`
}

var _ error = (*Error)(nil)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}
