package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"disorder.dev/shandler"

	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
)

// Param is the input for one call: where to send it, how to authorize it,
// and which method to invoke with which parameters. A Param is built by the
// caller per call and never mutated by the client.
type Param struct {
	// URL is the server endpoint, http or https.
	URL string

	// Token is the bearer token; empty means the call is sent without an
	// Authorization header.
	Token string

	// Method is the JSON-RPC method name.
	Method string

	// Params are the named call parameters, sent as a JSON object in the
	// order given.
	Params protocol.Params
}

// Call invokes p.Method on p.URL and decodes the result with the standard
// JSON decoder for T. It blocks until the exchange finishes or ctx ends.
// The response carries either the decoded result or the server's error
// object; a non-nil TransportError means the exchange itself failed and no
// response exists.
func Call[T any](ctx context.Context, c *Client, p Param) (protocol.Response[T], *TransportError) {
	return CallWith(ctx, c, p, protocol.JSONDecoder[T]())
}

// CallWith is Call with a caller-supplied decoder for the result payload.
func CallWith[T any](ctx context.Context, c *Client, p Param, dec protocol.Decoder[T]) (protocol.Response[T], *TransportError) {
	body, err := json.Marshal(protocol.NewRequest(c.nextID(), p.Method, p.Params))
	if err != nil {
		return protocol.Response[T]{}, &TransportError{Kind: TransportBadBody, Body: "encode request: " + err.Error()}
	}

	outcome := c.perform(ctx, p, body)
	return HandleJSONResponse(outcome, func(data []byte) (protocol.Response[T], error) {
		return protocol.DecodeResponse(data, dec)
	})
}

// Notify sends p.Method as a notification: the envelope carries no id and the
// response body is discarded. The returned TransportError is nil when the
// server acknowledged with a 2xx status.
func (c *Client) Notify(ctx context.Context, p Param) *TransportError {
	body, err := json.Marshal(protocol.NewNotification(p.Method, p.Params))
	if err != nil {
		return &TransportError{Kind: TransportBadBody, Body: "encode request: " + err.Error()}
	}

	outcome := c.perform(ctx, p, body)
	_, terr := HandleJSONResponse(outcome, func([]byte) (struct{}, error) {
		return struct{}{}, nil
	})
	return terr
}

// perform runs the HTTP exchange and reports what the transport produced.
// It is total: every failure is classified into one of the outcome kinds.
func (c *Client) perform(ctx context.Context, p Param, body []byte) Outcome {
	if !validRequestURL(p.URL) {
		return Outcome{Kind: OutcomeBadURL, URL: p.URL}
	}

	req, err := c.newHTTPRequest(ctx, p, body)
	if err != nil {
		return Outcome{Kind: OutcomeBadURL, URL: p.URL}
	}

	c.logger.Log(ctx, shandler.LevelTrace, "Sending RPC request",
		"url", p.URL, "method", p.Method, "body", string(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("RPC request failed", "url", p.URL, "method", p.Method, "error", err)
		return classifyRequestError(err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("RPC request returned bad status",
			"url", p.URL, "method", p.Method, "status", resp.StatusCode)
		return Outcome{Kind: OutcomeBadStatus, Status: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("Failed to read RPC response body",
			"url", p.URL, "method", p.Method, "error", err)
		return classifyRequestError(err)
	}

	c.logger.Log(ctx, shandler.LevelTrace, "Received RPC response",
		"url", p.URL, "method", p.Method, "status", resp.StatusCode, "body", string(respBody))

	return Outcome{Kind: OutcomeGoodStatus, Status: resp.StatusCode, Body: respBody}
}

// newHTTPRequest builds the POST request: JSON content negotiation headers
// plus the bearer token when one is present.
func (c *Client) newHTTPRequest(ctx context.Context, p Param, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if p.Token != "" {
		// The lowercase scheme is what deployed servers expect; keep it
		req.Header.Set("Authorization", "bearer "+p.Token)
	}

	return req, nil
}

// validRequestURL reports whether raw is an absolute http or https URL.
// Anything else is rejected before a request is attempted.
func validRequestURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// classifyRequestError sorts a round-trip or body-read failure into the
// timeout and network outcome kinds. Deadline expiry counts as a timeout
// whether it came from the context or from the HTTP client's own timer;
// cancellation and everything else count as a network failure.
func classifyRequestError(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Kind: OutcomeTimeout}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Outcome{Kind: OutcomeTimeout}
	}

	return Outcome{Kind: OutcomeNetworkError}
}
