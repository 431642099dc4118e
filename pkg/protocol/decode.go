package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Decoder turns raw JSON into the typed success payload of a call.
type Decoder[T any] func(data []byte) (T, error)

// JSONDecoder returns the standard decoder for T, backed by encoding/json.
// Types with their own UnmarshalJSON keep full control over validation.
func JSONDecoder[T any]() Decoder[T] {
	return func(data []byte) (T, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}
}

// envelope splits a response body into its result and error branches without
// committing to either.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// DecodeResponse decodes a JSON-RPC response body. The result branch is tried
// first: when the body has a result field and dec accepts it, that wins. The
// error branch is tried second and must carry both code and message. A body
// satisfying neither branch fails to decode.
func DecodeResponse[T any](body []byte, dec Decoder[T]) (Response[T], error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Response[T]{}, fmt.Errorf("response is not a JSON object: %w", err)
	}

	if len(env.Result) > 0 {
		if v, err := dec(env.Result); err == nil {
			return Response[T]{Result: v}, nil
		}
	}

	if len(env.Error) > 0 {
		if rpcErr, err := decodeErrorObject(env.Error); err == nil {
			return Response[T]{Err: rpcErr}, nil
		}
	}

	return Response[T]{}, errors.New("response has neither a decodable result nor a well-formed error object")
}

// decodeErrorObject decodes the error branch strictly: code and message are
// required, data is an optional nullable string.
func decodeErrorObject(raw json.RawMessage) (*RPCError, error) {
	var obj struct {
		Code    *int    `json:"code"`
		Message *string `json:"message"`
		Data    *string `json:"data"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if obj.Code == nil {
		return nil, errors.New(`error object is missing "code"`)
	}
	if obj.Message == nil {
		return nil, errors.New(`error object is missing "message"`)
	}
	return &RPCError{Code: *obj.Code, Message: *obj.Message, Data: obj.Data}, nil
}
