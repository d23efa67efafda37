// Package mcp exposes the labeling controller as an MCP server, so agent
// frontends can drive an annotation session over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ItemView is the structured payload returned by the item-facing tools.
type ItemView struct {
	ID        string `json:"id,omitempty" jsonschema_description:"Row identifier of the presented item"`
	Prompt    string `json:"prompt,omitempty" jsonschema_description:"Prompt text to judge"`
	Response  string `json:"response,omitempty" jsonschema_description:"Model response to judge"`
	Position  int    `json:"position,omitempty" jsonschema_description:"1-based position in the labeling pass"`
	Total     int    `json:"total" jsonschema_description:"Total rows in the dataset"`
	Exhausted bool   `json:"exhausted" jsonschema_description:"True when every row is labeled"`
}

// ProgressView mirrors the labeling progress counts.
type ProgressView struct {
	Labeled   int  `json:"labeled"`
	Remaining int  `json:"remaining"`
	Total     int  `json:"total"`
	Complete  bool `json:"complete"`
}

// Controller defines the interface required by the MCP server to drive a
// labeling session.
type Controller interface {
	Start(ctx context.Context) (*session.Session, error)
	Current(s *session.Session) *domain.Row
	Label(ctx context.Context, s *session.Session, id string, value domain.Label) error
	Skip(s *session.Session) string
	Reset(ctx context.Context, s *session.Session) error
	Progress() domain.Progress
}

// Server wraps the controller and exposes it as an MCP server. The session
// is started on first use and shared across tool calls; calls are serialized
// so each action sees the state the previous one left behind.
type Server struct {
	ctrl      Controller
	mcpServer *server.MCPServer

	mu      sync.Mutex
	session *session.Session
}

// NewServer creates a new MCP Server instance.
func NewServer(ctrl Controller) *Server {
	s := &Server{
		ctrl:      ctrl,
		mcpServer: server.NewMCPServer("tally-mcp", strings.TrimSpace(tally.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
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
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: current_item
	currentTool := mcp.NewTool("current_item",
		mcp.WithDescription("Get the item currently presented for labeling. Starts a session on first call."),
		mcp.WithOutputSchema[ItemView](),
	)
	s.mcpServer.AddTool(currentTool, mcp.NewStructuredToolHandler(s.handleCurrentItem))

	// TOOL: submit_label
	labelTool := mcp.NewTool("submit_label",
		mcp.WithDescription("Apply a Yes/No label to a row and advance to the next unlabeled item."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Row ID to label; must be the currently presented item")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Label value, \"Yes\" or \"No\"")),
		mcp.WithOutputSchema[ItemView](),
	)
	s.mcpServer.AddTool(labelTool, mcp.NewStructuredToolHandler(s.handleSubmitLabel))

	// TOOL: skip_item
	skipTool := mcp.NewTool("skip_item",
		mcp.WithDescription("Skip the current item without labeling it. It reappears after the remaining unlabeled items."),
		mcp.WithOutputSchema[ItemView](),
	)
	s.mcpServer.AddTool(skipTool, mcp.NewStructuredToolHandler(s.handleSkipItem))

	// TOOL: reset_labels
	resetTool := mcp.NewTool("reset_labels",
		mcp.WithDescription("Clear every label and restart the pass from the first item in order."),
		mcp.WithOutputSchema[ItemView](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleResetLabels))

	// TOOL: get_progress
	progressTool := mcp.NewTool("get_progress",
		mcp.WithDescription("Get labeled/remaining/total counts for the dataset."),
		mcp.WithOutputSchema[ProgressView](),
	)
	s.mcpServer.AddTool(progressTool, mcp.NewStructuredToolHandler(s.handleGetProgress))
}

// Handler methods for structured tools

func (s *Server) handleCurrentItem(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx); err != nil {
		return ItemView{}, err
	}
	return s.itemView(), nil
}

func (s *Server) handleSubmitLabel(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx); err != nil {
		return ItemView{}, err
	}

	id, _ := args["id"].(string)
	raw, _ := args["value"].(string)

	value, err := domain.ParseLabel(raw)
	if err != nil || !value.IsSet() {
		return ItemView{}, fmt.Errorf("%w: value must be \"Yes\" or \"No\", got %q", domain.ErrInvalidLabel, raw)
	}

	if err := s.ctrl.Label(ctx, s.session, id, value); err != nil {
		slog.Warn("MCP submit_label: label not applied", "id", id, "error", err)
		return ItemView{}, fmt.Errorf("label failed: %w", err)
	}

	return s.itemView(), nil
}

func (s *Server) handleSkipItem(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx); err != nil {
		return ItemView{}, err
	}

	s.ctrl.Skip(s.session)
	return s.itemView(), nil
}

func (s *Server) handleResetLabels(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx); err != nil {
		return ItemView{}, err
	}

	if err := s.ctrl.Reset(ctx, s.session); err != nil {
		return ItemView{}, fmt.Errorf("reset failed: %w", err)
	}
	return s.itemView(), nil
}

func (s *Server) handleGetProgress(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProgressView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx); err != nil {
		return ProgressView{}, err
	}
	return s.progressView(), nil
}

// ensureSession lazily starts the annotator session. Callers must hold s.mu.
func (s *Server) ensureSession(ctx context.Context) error {
	if s.session != nil {
		return nil
	}
	sess, err := s.ctrl.Start(ctx)
	if err != nil {
		return fmt.Errorf("session start failed: %w", err)
	}
	s.session = sess
	return nil
}

// itemView builds the current-item payload. Callers must hold s.mu.
func (s *Server) itemView() ItemView {
	p := s.ctrl.Progress()
	row := s.ctrl.Current(s.session)
	if row == nil {
		return ItemView{Total: p.Total, Exhausted: true}
	}
	return ItemView{
		ID:       row.ID,
		Prompt:   row.Prompt,
		Response: row.Response,
		Position: p.Labeled + 1,
		Total:    p.Total,
	}
}

func (s *Server) progressView() ProgressView {
	p := s.ctrl.Progress()
	return ProgressView{
		Labeled:   p.Labeled,
		Remaining: p.Remaining,
		Total:     p.Total,
		Complete:  p.Complete(),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: tally://progress
	s.mcpServer.AddResource(mcp.NewResource("tally://progress", "Labeling Progress",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.ensureSession(ctx); err != nil {
			return nil, err
		}

		jsonBytes, _ := json.Marshal(s.progressView())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tally://progress",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
