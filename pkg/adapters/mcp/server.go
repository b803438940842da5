package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/rail"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const schemaURI = "rail://schema"

// ValidateResponse is the structured result of the validate tool. Validation
// failures are reported in the body, not as tool errors, so that the caller
// can correct its output and try again.
type ValidateResponse struct {
	Valid     bool           `json:"valid" jsonschema_description:"True when the output satisfies the schema"`
	Output    map[string]any `json:"output,omitempty" jsonschema_description:"The corrected output document"`
	Error     string         `json:"error,omitempty" jsonschema_description:"Why validation failed"`
	Path      string         `json:"path,omitempty" jsonschema_description:"Location of the failing value, e.g. items[2].name"`
	Validator string         `json:"validator,omitempty" jsonschema_description:"Name of the failing validator"`
	Reask     bool           `json:"reask,omitempty" jsonschema_description:"The output should be regenerated"`
}

// DescribeResponse is the structured result of the describe_schema tool.
type DescribeResponse struct {
	Markdown string             `json:"markdown" jsonschema_description:"Human readable schema documentation"`
	Schema   schema.Description `json:"schema" jsonschema_description:"The schema tree"`
}

// Server exposes a Guard as an MCP Server.
type Server struct {
	mu        sync.RWMutex
	guard     *rail.Guard
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(guard *rail.Guard, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		guard:     guard,
		logger:    logger,
		mcpServer: server.NewMCPServer("rail-mcp", strings.TrimSpace(rail.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Guard returns the current guard.
func (s *Server) Guard() *rail.Guard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guard
}

// Swap replaces the served guard.
func (s *Server) Swap(g *rail.Guard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard = g
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: validate
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Validate and correct a structured output document against the loaded rail schema."),
		mcp.WithString("output", mcp.Required(), mcp.Description("The output document, as a JSON object or YAML mapping")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: describe_schema
	describeTool := mcp.NewTool("describe_schema",
		mcp.WithDescription("Describe the fields, types and validators the output must satisfy."),
		mcp.WithBoolean("keywords", mcp.Description("Render validator arguments with their keyword names")),
		mcp.WithOutputSchema[DescribeResponse](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribe))
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	raw, _ := args["output"].(string)
	if strings.TrimSpace(raw) == "" {
		return ValidateResponse{}, errors.New("output is required")
	}

	doc, err := rail.DecodeOutput(strings.NewReader(raw))
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("invalid output: %w", err)
	}

	out, err := s.Guard().Validate(ctx, doc)
	if err != nil {
		resp := ValidateResponse{Error: err.Error()}
		var pe *schema.PathError
		if errors.As(err, &pe) {
			resp.Path = pe.Path.String()
		}
		var vf *schema.ValidatorFailure
		if errors.As(err, &vf) {
			resp.Validator = vf.Validator
			resp.Reask = vf.Reask
		}
		s.logger.Debug("MCP validate: output rejected", "error", err)
		return resp, nil
	}
	return ValidateResponse{Valid: true, Output: out}, nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DescribeResponse, error) {
	keywords, _ := args["keywords"].(bool)
	g := s.Guard()
	return DescribeResponse{
		Markdown: g.Describe(keywords),
		Schema:   schema.Describe(g.Schema().Root()),
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: rail://schema
	s.mcpServer.AddResource(mcp.NewResource(schemaURI, "Output Schema",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.Guard().Schema())
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      schemaURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
