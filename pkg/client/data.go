package client

import (
	"fmt"

	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
)

// DataKind selects which field of a Data carries the payload.
type DataKind int

const (
	// DataResult means the call produced a decoded result.
	DataResult DataKind = iota

	// DataRPCError means the server answered with an RPC error object.
	DataRPCError

	// DataTransportError means the exchange failed below the RPC layer.
	DataTransportError
)

// Data is the flattened view of a call: the two nested layers (did the
// transport work, did the server accept the call) collapsed into one tagged
// value. Exactly one payload field is set, selected by Kind.
type Data[T any] struct {
	Kind      DataKind
	Result    T
	RPCErr    *protocol.RPCError
	Transport *TransportError
}

// FlatResponse flattens a decoded response into a Data.
func FlatResponse[T any](resp protocol.Response[T]) Data[T] {
	if resp.IsError() {
		return Data[T]{Kind: DataRPCError, RPCErr: resp.Err}
	}
	return Data[T]{Kind: DataResult, Result: resp.Result}
}

// Flat flattens a full call outcome into a Data. A non-nil transport error
// wins; otherwise the response decides between result and RPC error.
func Flat[T any](resp protocol.Response[T], terr *TransportError) Data[T] {
	if terr != nil {
		return Data[T]{Kind: DataTransportError, Transport: terr}
	}
	return FlatResponse(resp)
}

// ToResult reduces the Data to a plain value-or-error pair. The error is the
// original *protocol.RPCError or *TransportError, so callers can recover the
// structured value with errors.As while plain err.Error() keeps the
// human-readable rendering.
func (d Data[T]) ToResult() (T, error) {
	var zero T
	switch d.Kind {
	case DataResult:
		return d.Result, nil
	case DataRPCError:
		return zero, d.RPCErr
	case DataTransportError:
		return zero, d.Transport
	default:
		return zero, fmt.Errorf("unknown data kind %d", d.Kind)
	}
}
