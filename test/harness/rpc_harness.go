// Package harness provides a scripted JSON-RPC server for exercising the
// client against real HTTP exchanges: register method handlers, script raw
// responses for fault cases, and inspect every request the server received.
package harness

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/liwenjun/go-jsonrpc/internal/jsonrpc"
	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
)

// HandlerFunc handles one method call. The returned value is marshaled into
// the result field; a non-nil RPCError produces an error response instead.
type HandlerFunc func(params json.RawMessage) (any, *protocol.RPCError)

// CapturedRequest is one request exactly as the server received it.
type CapturedRequest struct {
	Header http.Header
	Body   []byte
}

// Server is a scripted JSON-RPC server backed by an ephemeral HTTP listener.
type Server struct {
	httpServer *httptest.Server

	mu       sync.Mutex
	token    string
	handlers map[string]HandlerFunc
	captured []CapturedRequest
	scripted []scriptedResponse
}

type scriptedResponse struct {
	status int
	body   string
	delay  time.Duration
}

// Option represents an option for the test server
type Option func(*Server)

// WithBearerToken makes the server reject any request whose Authorization
// header is not exactly "bearer <token>".
func WithBearerToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// NewServer creates and starts a scripted JSON-RPC server. Callers own the
// returned server and must Close it.
func NewServer(options ...Option) *Server {
	s := &Server{
		handlers: make(map[string]HandlerFunc),
	}

	for _, opt := range options {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/rpc", s.handleRPC)

	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the RPC endpoint URL.
func (s *Server) URL() string {
	return s.httpServer.URL + "/rpc"
}

// BaseURL returns the server root.
func (s *Server) BaseURL() string {
	return s.httpServer.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// Register installs a handler for a method name. Re-registering a method
// replaces the previous handler.
func (s *Server) Register(method string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// ScriptStatus answers the next request with the given status and an empty
// body, bypassing method dispatch. Scripted responses queue up in order.
func (s *Server) ScriptStatus(status int) {
	s.ScriptResponse(status, "")
}

// ScriptResponse answers the next request with the given status and raw
// body, bypassing method dispatch.
func (s *Server) ScriptResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripted = append(s.scripted, scriptedResponse{status: status, body: body})
}

// ScriptDelayedResponse is ScriptResponse with induced latency: the server
// holds the request for delay before answering, for exercising timeouts.
func (s *Server) ScriptDelayedResponse(delay time.Duration, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripted = append(s.scripted, scriptedResponse{status: status, body: body, delay: delay})
}

// Requests returns the captured requests in arrival order.
func (s *Server) Requests() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.captured))
	copy(out, s.captured)
	return out
}

// LastRequest returns the most recently captured request.
func (s *Server) LastRequest() (CapturedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.captured) == 0 {
		return CapturedRequest{}, false
	}
	return s.captured[len(s.captured)-1], true
}

// handleRPC is the scripted dispatch: capture, scripted faults, auth, then
// method lookup.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.captured = append(s.captured, CapturedRequest{Header: r.Header.Clone(), Body: body})
	var script *scriptedResponse
	if len(s.scripted) > 0 {
		next := s.scripted[0]
		s.scripted = s.scripted[1:]
		script = &next
	}
	token := s.token
	s.mu.Unlock()

	if script != nil {
		if script.delay > 0 {
			time.Sleep(script.delay)
		}
		w.WriteHeader(script.status)
		_, _ = w.Write([]byte(script.body))
		return
	}

	if token != "" && r.Header.Get("Authorization") != "bearer "+token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req jsonrpc.RawRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeResponse(w, jsonrpc.ErrorResponse(nil, protocol.NewParseError(err.Error())))
		return
	}

	s.mu.Lock()
	h, ok := s.handlers[req.Method]
	s.mu.Unlock()

	if !ok {
		s.writeResponse(w, jsonrpc.ErrorResponse(req.ID, protocol.NewMethodNotFoundError(req.Method)))
		return
	}

	result, rpcErr := h(req.Params)

	// Notifications run the handler but get only an acknowledgement
	if req.IsNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if rpcErr != nil {
		s.writeResponse(w, jsonrpc.ErrorResponse(req.ID, rpcErr))
		return
	}

	s.writeResponse(w, jsonrpc.ResultResponse(req.ID, result))
}

func (s *Server) writeResponse(w http.ResponseWriter, resp jsonrpc.RawResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Harness request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", time.Since(start).String(),
		)
	})
}
