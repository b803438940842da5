package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/rail"
	"github.com/aretw0/rail/api"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// maxBodySize bounds a validation request body.
const maxBodySize = 10 << 20

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Path      string `json:"path,omitempty"`
	Validator string `json:"validator,omitempty"`
	Reask     bool   `json:"reask,omitempty"`
	FixValue  any    `json:"fix_value,omitempty"`
}

// ValidateResponse is the body of a successful POST /validate.
type ValidateResponse struct {
	Output map[string]any `json:"output"`
}

// GetSchemaParams defines parameters for GetSchema.
type GetSchemaParams struct {
	Format   *string `form:"format,omitempty" json:"format,omitempty"`
	Keywords *bool   `form:"keywords,omitempty" json:"keywords,omitempty"`
}

// Server serves one Guard over HTTP. The Guard can be swapped at runtime
// (see Swap), which notifies /events subscribers.
type Server struct {
	mu      sync.RWMutex
	guard   *rail.Guard
	logger  *slog.Logger
	Streams *StreamManager
}

// Option configures the handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger  *slog.Logger
	metrics http.Handler
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *handlerConfig) { c.logger = l }
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(c *handlerConfig) { c.metrics = h }
}

// NewServer creates a Server for guard.
func NewServer(guard *rail.Guard, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{guard: guard, logger: logger, Streams: NewStreamManager(logger)}
}

// NewHandler creates the HTTP handler for guard. Requests to the routes
// described in api/openapi.yaml are checked against it before they reach
// the handlers; request bodies are left to the handlers, which accept JSON
// and YAML alike.
func NewHandler(ctx context.Context, guard *rail.Guard, opts ...Option) (http.Handler, *Server, error) {
	cfg := &handlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	server := NewServer(guard, cfg.logger)

	doc, err := api.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	r.Group(func(r chi.Router) {
		r.Use(server.requestValidator(router))
		r.Post("/validate", server.Validate)
		r.Get("/schema", server.GetSchema)
		r.Get("/healthz", server.GetHealth)
		r.Get("/info", server.GetInfo)
		r.Get("/events", server.SubscribeEvents)
	})
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}
	return r, server, nil
}

// requestValidator rejects requests whose method, path or parameters do not
// match the OpenAPI description.
func (s *Server) requestValidator(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
				return
			}
			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    &openapi3filter.Options{ExcludeRequestBody: true},
			})
			if err != nil {
				s.logger.Warn("request rejected", "path", r.URL.Path, "error", err)
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Rail API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Guard returns the current guard.
func (s *Server) Guard() *rail.Guard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guard
}

// Swap replaces the served guard and notifies /events subscribers.
// In-flight validations finish against the previous one.
func (s *Server) Swap(g *rail.Guard) {
	s.mu.Lock()
	s.guard = g
	s.mu.Unlock()
	s.Streams.Broadcast("reload")
}

// Validate handles POST /validate. The body is the output document, in
// JSON or YAML.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	doc, err := rail.DecodeOutput(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.logger.Warn("Validate: invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	out, err := s.Guard().Validate(r.Context(), doc)
	if err != nil {
		status, resp := errorResponse(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Validate failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Output: out})
}

// errorResponse maps validation errors to a status code and body.
func errorResponse(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var pe *schema.PathError
	if errors.As(err, &pe) {
		resp.Path = pe.Path.String()
	}

	var (
		vf  *schema.ValidatorFailure
		tce *schema.TypeCoercionError
		se  *schema.SchemaError
	)
	switch {
	case errors.As(err, &vf):
		resp.Validator = vf.Validator
		resp.Reask = vf.Reask
		resp.FixValue = vf.FixValue
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &tce), errors.As(err, &se):
		return http.StatusUnprocessableEntity, resp
	}
	return http.StatusInternalServerError, resp
}

// GetSchema handles GET /schema. `?format=markdown` returns the rendered
// documentation instead of the JSON description.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	var params GetSchemaParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Invalid format for parameter format: %s", err)})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "keywords", r.URL.Query(), &params.Keywords); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Invalid format for parameter keywords: %s", err)})
		return
	}

	g := s.Guard()
	if params.Format != nil && *params.Format == "markdown" {
		keywords := params.Keywords != nil && *params.Keywords
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, g.Describe(keywords))
		return
	}
	writeJSON(w, http.StatusOK, g.Schema())
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "rail-http",
		"version": strings.TrimSpace(rail.Version),
		"schema":  s.Guard().Name,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping message")
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). A "reload" event
// is sent whenever the served schema changes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
