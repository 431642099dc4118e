package client

import (
	"context"

	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
)

// Pending represents an in-flight call. When the exchange finishes, the
// Pending is delivered on Done exactly once, with Response and Err filled in.
// Reading those fields before receiving from Done is a data race.
type Pending[T any] struct {
	// Param is the input the call was issued with.
	Param Param

	// Response is the decoded response. Meaningful only when Err is nil.
	Response protocol.Response[T]

	// Err is the transport failure, if the exchange itself broke down.
	Err *TransportError

	// Done receives the Pending itself on completion.
	Done chan *Pending[T]
}

// Data flattens the finished call into a single tagged value.
func (p *Pending[T]) Data() Data[T] {
	return Flat(p.Response, p.Err)
}

// Result reduces the finished call to a plain value-or-error pair.
func (p *Pending[T]) Result() (T, error) {
	return p.Data().ToResult()
}

// Go invokes p.Method on p.URL without blocking and decodes the result with
// the standard JSON decoder for T. The returned Pending is delivered on done
// when the exchange finishes; a nil done gets a fresh channel with capacity
// one. Callers sharing one done channel across many calls must size it, or
// drain it promptly: delivery waits for room rather than dropping results.
func Go[T any](ctx context.Context, c *Client, p Param, done chan *Pending[T]) *Pending[T] {
	return GoWith(ctx, c, p, protocol.JSONDecoder[T](), done)
}

// GoWith is Go with a caller-supplied decoder for the result payload.
func GoWith[T any](ctx context.Context, c *Client, p Param, dec protocol.Decoder[T], done chan *Pending[T]) *Pending[T] {
	if done == nil {
		done = make(chan *Pending[T], 1)
	}

	pending := &Pending[T]{
		Param: p,
		Done:  done,
	}

	go func() {
		pending.Response, pending.Err = CallWith(ctx, c, p, dec)
		pending.Done <- pending
	}()

	return pending
}
