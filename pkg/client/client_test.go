package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
	"github.com/liwenjun/go-jsonrpc/test/harness"
)

func TestCall(t *testing.T) {
	t.Run("ping pong round trip", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.Register("ping", func(params json.RawMessage) (any, *protocol.RPCError) {
			return "pong", nil
		})

		c := Default()
		resp, terr := Call[string](context.Background(), c, Param{
			URL:    srv.URL(),
			Token:  "abc",
			Method: "ping",
		})
		require.Nil(t, terr, "transport should succeed")
		require.False(t, resp.IsError())
		assert.Equal(t, "pong", resp.Result)

		// The request document must have exactly the four envelope fields,
		// in order, with the fixed id 0
		captured, ok := srv.LastRequest()
		require.True(t, ok, "server should have captured the request")
		assert.Equal(t, `{"id":0,"jsonrpc":"2.0","method":"ping","params":{}}`, string(captured.Body))

		assert.Equal(t, "application/json", captured.Header.Get("Accept"))
		assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
		assert.Equal(t, "bearer abc", captured.Header.Get("Authorization"))
	})

	t.Run("token is optional", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.Register("ping", func(params json.RawMessage) (any, *protocol.RPCError) {
			return "pong", nil
		})

		_, terr := Call[string](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Method: "ping",
		})
		require.Nil(t, terr)

		captured, ok := srv.LastRequest()
		require.True(t, ok)
		_, hasAuth := captured.Header["Authorization"]
		assert.False(t, hasAuth, "no token means no Authorization header")
	})

	t.Run("typed result with ordered params", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		type user struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}

		srv.Register("createUser", func(params json.RawMessage) (any, *protocol.RPCError) {
			var u user
			if err := json.Unmarshal(params, &u); err != nil {
				return nil, protocol.NewInvalidParamsError(err.Error())
			}
			return u, nil
		})

		resp, terr := Call[user](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Method: "createUser",
			Params: protocol.Params{
				{Key: "name", Value: "ada"},
				{Key: "age", Value: 36},
			},
		})
		require.Nil(t, terr)
		require.False(t, resp.IsError())
		assert.Equal(t, user{Name: "ada", Age: 36}, resp.Result)

		captured, ok := srv.LastRequest()
		require.True(t, ok)
		assert.Equal(t,
			`{"id":0,"jsonrpc":"2.0","method":"createUser","params":{"name":"ada","age":36}}`,
			string(captured.Body))
	})

	t.Run("server error object", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.Register("explode", func(params json.RawMessage) (any, *protocol.RPCError) {
			return nil, protocol.NewInvalidParamsError("fuse missing").WithData("try a longer fuse")
		})

		resp, terr := Call[string](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Method: "explode",
		})
		require.Nil(t, terr, "an RPC error is still a transport success")
		require.True(t, resp.IsError())
		assert.Equal(t, protocol.ErrInvalidParams, resp.Err.Code)
		assert.Equal(t, "Invalid params: fuse missing", resp.Err.Message)
		require.NotNil(t, resp.Err.Data)
		assert.Equal(t, "try a longer fuse", *resp.Err.Data)
	})

	t.Run("unknown method", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		resp, terr := Call[string](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Method: "nope",
		})
		require.Nil(t, terr)
		require.True(t, resp.IsError())
		assert.Equal(t, protocol.ErrMethodNotFound, resp.Err.Code)
		assert.Equal(t, "Method not found: nope", resp.Err.Message)
	})

	t.Run("bad status", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.ScriptStatus(http.StatusInternalServerError)

		_, terr := Call[string](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Method: "ping",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportBadStatus, terr.Kind)
		assert.Equal(t, 500, terr.Status)
		assert.Contains(t, terr.Error(), "500")
	})

	t.Run("rejected bearer token", func(t *testing.T) {
		srv := harness.NewServer(harness.WithBearerToken("secret"))
		defer srv.Close()

		srv.Register("ping", func(params json.RawMessage) (any, *protocol.RPCError) {
			return "pong", nil
		})

		_, terr := Call[string](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Token:  "wrong",
			Method: "ping",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportBadStatus, terr.Kind)
		assert.Equal(t, http.StatusUnauthorized, terr.Status)

		// The right token goes through
		resp, terr := Call[string](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Token:  "secret",
			Method: "ping",
		})
		require.Nil(t, terr)
		assert.Equal(t, "pong", resp.Result)
	})

	t.Run("bad body keeps the raw text", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.ScriptResponse(http.StatusOK, "not json")

		_, terr := Call[string](context.Background(), Default(), Param{
			URL:    srv.URL(),
			Method: "ping",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportBadBody, terr.Kind)
		assert.Equal(t, "not json", terr.Body)
		assert.Equal(t, "not json", terr.Error())
	})

	t.Run("bad url", func(t *testing.T) {
		_, terr := Call[string](context.Background(), Default(), Param{
			URL:    "ftp://example.com/rpc",
			Method: "ping",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportBadURL, terr.Kind)
		assert.Equal(t, "ftp://example.com/rpc", terr.URL)
		assert.Equal(t, "Bad request url: ftp://example.com/rpc", terr.Error())
	})

	t.Run("network error", func(t *testing.T) {
		srv := harness.NewServer()
		target := srv.URL()
		srv.Close()

		_, terr := Call[string](context.Background(), Default(), Param{
			URL:    target,
			Method: "ping",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportNetworkError, terr.Kind)
		assert.Equal(t, "Network error", terr.Error())
	})

	t.Run("context deadline becomes a timeout", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.ScriptDelayedResponse(300*time.Millisecond, http.StatusOK, `{"jsonrpc":"2.0","result":"late","id":0}`)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, terr := Call[string](ctx, Default(), Param{
			URL:    srv.URL(),
			Method: "slow",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportTimeout, terr.Kind)
		assert.Equal(t, "Request timed out", terr.Error())
	})

	t.Run("http client timeout becomes a timeout", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.ScriptDelayedResponse(300*time.Millisecond, http.StatusOK, `{"jsonrpc":"2.0","result":"late","id":0}`)

		c := NewClient(Options{
			HTTPClient: &http.Client{Timeout: 50 * time.Millisecond},
		})

		_, terr := Call[string](context.Background(), c, Param{
			URL:    srv.URL(),
			Method: "slow",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportTimeout, terr.Kind)
	})

	t.Run("unencodable params become a bad body", func(t *testing.T) {
		_, terr := Call[string](context.Background(), Default(), Param{
			URL:    "http://example.com/rpc",
			Method: "ping",
			Params: protocol.Params{{Key: "ch", Value: make(chan int)}},
		})

		// Encoding fails before any request is sent
		require.NotNil(t, terr)
		assert.Equal(t, TransportBadBody, terr.Kind)
		assert.Contains(t, terr.Body, "encode request:")
	})

	t.Run("generated request ids", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.Register("ping", func(params json.RawMessage) (any, *protocol.RPCError) {
			return "pong", nil
		})

		opts := DefaultOptions()
		opts.GenerateRequestIDs = true
		c := NewClient(opts)

		for i := 0; i < 2; i++ {
			_, terr := Call[string](context.Background(), c, Param{URL: srv.URL(), Method: "ping"})
			require.Nil(t, terr)
		}

		requests := srv.Requests()
		require.Len(t, requests, 2)

		ids := make([]string, 0, 2)
		for _, r := range requests {
			var envelope map[string]any
			require.NoError(t, json.Unmarshal(r.Body, &envelope))
			id, ok := envelope["id"].(string)
			require.True(t, ok, "generated ids should be strings")
			require.NotEmpty(t, id)
			ids = append(ids, id)
		}
		assert.NotEqual(t, ids[0], ids[1], "each request should get a fresh id")
	})
}

func TestCallWith(t *testing.T) {
	t.Run("custom decoder rejects the payload", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.Register("count", func(params json.RawMessage) (any, *protocol.RPCError) {
			return -3, nil
		})

		nonNegative := func(data []byte) (int, error) {
			var n int
			if err := json.Unmarshal(data, &n); err != nil {
				return 0, err
			}
			if n < 0 {
				return 0, assert.AnError
			}
			return n, nil
		}

		_, terr := CallWith(context.Background(), Default(), Param{
			URL:    srv.URL(),
			Method: "count",
		}, nonNegative)

		// The decoder rejected the document, so the whole body comes back
		require.NotNil(t, terr)
		assert.Equal(t, TransportBadBody, terr.Kind)
		assert.Contains(t, terr.Body, `"result":-3`)
	})
}

func TestNotify(t *testing.T) {
	t.Run("notification has no id and no reply", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		seen := make(chan string, 1)
		srv.Register("log", func(params json.RawMessage) (any, *protocol.RPCError) {
			seen <- string(params)
			return nil, nil
		})

		terr := Default().Notify(context.Background(), Param{
			URL:    srv.URL(),
			Method: "log",
			Params: protocol.Params{{Key: "line", Value: "started"}},
		})
		require.Nil(t, terr)

		select {
		case params := <-seen:
			assert.Equal(t, `{"line":"started"}`, params)
		case <-time.After(time.Second):
			t.Fatal("handler never saw the notification")
		}

		captured, ok := srv.LastRequest()
		require.True(t, ok)
		assert.Equal(t, `{"jsonrpc":"2.0","method":"log","params":{"line":"started"}}`, string(captured.Body))
	})

	t.Run("notification to a failing server", func(t *testing.T) {
		srv := harness.NewServer()
		defer srv.Close()

		srv.ScriptStatus(http.StatusServiceUnavailable)

		terr := Default().Notify(context.Background(), Param{
			URL:    srv.URL(),
			Method: "log",
		})
		require.NotNil(t, terr)
		assert.Equal(t, TransportBadStatus, terr.Kind)
		assert.Equal(t, 503, terr.Status)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("nil options fall back to defaults", func(t *testing.T) {
		c := NewClient(Options{})
		require.NotNil(t, c.httpClient)
		require.NotNil(t, c.logger)
		assert.False(t, c.generateIDs)
	})

	t.Run("fixed id is zero", func(t *testing.T) {
		c := Default()
		assert.Equal(t, 0, c.nextID())
		assert.Equal(t, 0, c.nextID(), "the fixed id never advances")
	})

	t.Run("generated ids are unique", func(t *testing.T) {
		opts := DefaultOptions()
		opts.GenerateRequestIDs = true
		c := NewClient(opts)

		first := c.nextID()
		second := c.nextID()
		assert.NotEqual(t, first, second)
	})
}
