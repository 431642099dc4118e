package protocol

import (
	"errors"
	"fmt"
)

// Standard JSON-RPC error codes
const (
	// Parse error
	ErrParse = -32700
	// Invalid request
	ErrInvalidRequest = -32600
	// Method not found
	ErrMethodNotFound = -32601
	// Invalid params
	ErrInvalidParams = -32602
	// Internal error
	ErrInternal = -32603
	// Server error (reserved for implementation-defined server errors)
	ErrServer = -32000
)

// RPCError is the error object a JSON-RPC server puts in its response. Data
// carries the optional extra detail; nil means the field was absent or null.
type RPCError struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Data    *string `json:"data,omitempty"`
}

// Error implements the error interface. The format is stable so callers can
// surface it to users directly.
func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("Code: %d Message: %s Data: %s", e.Code, e.Message, *e.Data)
	}
	return fmt.Sprintf("Code: %d Message: %s", e.Code, e.Message)
}

// Is implements errors.Is matching for RPCError.
// A target with code 0 matches any code; a target with an empty message
// matches any message.
func (e *RPCError) Is(target error) bool {
	var targetErr *RPCError
	if !errors.As(target, &targetErr) {
		return false
	}

	if targetErr.Code != 0 && e.Code != targetErr.Code {
		return false
	}

	if targetErr.Message != "" && e.Message != targetErr.Message {
		return false
	}

	return true
}

// WithData returns the error with its data detail set.
func (e *RPCError) WithData(data string) *RPCError {
	e.Data = &data
	return e
}

// NewError creates a new RPC error
func NewError(code int, message string) *RPCError {
	return &RPCError{
		Code:    code,
		Message: message,
	}
}

// NewParseError creates a new parse error
func NewParseError(details string) *RPCError {
	message := "Parse error"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrParse, message)
}

// NewInvalidRequestError creates a new invalid request error
func NewInvalidRequestError(details string) *RPCError {
	message := "Invalid request"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrInvalidRequest, message)
}

// NewMethodNotFoundError creates a new method not found error
func NewMethodNotFoundError(method string) *RPCError {
	return NewError(ErrMethodNotFound, "Method not found: "+method)
}

// NewInvalidParamsError creates a new invalid params error
func NewInvalidParamsError(details string) *RPCError {
	message := "Invalid params"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrInvalidParams, message)
}

// NewInternalError creates a new internal error
func NewInternalError(details string) *RPCError {
	message := "Internal error"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrInternal, message)
}

// NewServerError creates a new server error. Codes outside the reserved
// -32099..-32000 range fall back to the standard server error code.
func NewServerError(code int, message string) *RPCError {
	if code >= -32099 && code <= -32000 {
		return NewError(code, message)
	}
	return NewError(ErrServer, message)
}

// IsRPCError checks if an error is a JSON-RPC error object
func IsRPCError(err error) (*RPCError, bool) {
	if err == nil {
		return nil, false
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}
