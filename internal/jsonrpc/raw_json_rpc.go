// Package jsonrpc holds the raw wire structures for building and inspecting
// JSON-RPC documents without the typed decoding the client applies. The test
// harness and tooling answer requests through these.
package jsonrpc

import (
	"encoding/json"

	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
)

type RawRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id,omitempty"` // Can be a string, number or null
}

type RawError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type RawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RawError       `json:"error,omitempty"`
	ID      any             `json:"id"`
}

// IsNotification reports whether the request carries no id and therefore
// expects no response document.
func (r *RawRequest) IsNotification() bool {
	return r.ID == nil
}

// ResultResponse builds a success response echoing id. A result that cannot
// be marshaled turns into an internal error response instead.
func ResultResponse(id any, result any) RawResponse {
	data, err := json.Marshal(result)
	if err != nil {
		return ErrorResponse(id, protocol.NewInternalError("marshal result: "+err.Error()))
	}
	return RawResponse{
		JSONRPC: protocol.Version,
		Result:  data,
		ID:      id,
	}
}

// ErrorResponse builds an error response echoing id.
func ErrorResponse(id any, rpcErr *protocol.RPCError) RawResponse {
	e := &RawError{
		Code:    rpcErr.Code,
		Message: rpcErr.Message,
	}
	if rpcErr.Data != nil {
		e.Data = *rpcErr.Data
	}
	return RawResponse{
		JSONRPC: protocol.Version,
		Error:   e,
		ID:      id,
	}
}
