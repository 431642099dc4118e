// Package protocol defines the JSON-RPC 2.0 wire types used by the client:
// the request envelope, the ordered call parameters, and the result/error
// response shapes together with their decoding rules.
package protocol

import (
	"bytes"
	"encoding/json"
)

// Version is the JSON-RPC protocol version sent with every request.
const Version = "2.0"

// Field is a single named parameter of a call.
type Field struct {
	Key   string
	Value any
}

// Params is the ordered parameter list of a call. It always marshals to a
// JSON object, writing the fields in insertion order. Duplicate keys are kept
// as-is; providing them is a caller mistake and the receiving side decides
// which occurrence wins.
type Params []Field

// MarshalJSON implements json.Marshaler. A nil or empty Params encodes as {}.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Request is the JSON-RPC request envelope. The declaration order fixes the
// marshaled document layout: id, jsonrpc, method, params.
type Request struct {
	ID      any    `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

// NewRequest builds a request envelope for the given method.
func NewRequest(id any, method string, params Params) Request {
	return Request{
		ID:      id,
		JSONRPC: Version,
		Method:  method,
		Params:  params,
	}
}

// Notification is a request without an id; the server must not reply to it.
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

// NewNotification builds a notification envelope for the given method.
func NewNotification(method string, params Params) Notification {
	return Notification{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
	}
}

// Response is the outcome of a JSON-RPC exchange once the HTTP call itself
// has succeeded: either the decoded result payload or the server's error
// object. Err == nil means the result branch.
type Response[T any] struct {
	Result T
	Err    *RPCError
}

// IsError reports whether the response carries the server's error object.
func (r Response[T]) IsError() bool {
	return r.Err != nil
}
