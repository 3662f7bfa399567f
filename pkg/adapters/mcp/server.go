package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/wayfare"
	"github.com/aretw0/wayfare/internal/logging"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/resolve"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine defines what the MCP server needs from the booking engine.
type Engine interface {
	Vocabulary() domain.Vocabulary
	Infer(message string, known domain.SlotState) resolve.Report
	Send(ctx context.Context, conversationID string, msg wayfare.Message) (domain.TurnOutput, error)
	Reset(ctx context.Context, conversationID string) (domain.TurnOutput, error)
	Conversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
}

// Server wraps the Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for tool failures and transport events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("wayfare-mcp", wayfare.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

type inferArgs struct {
	Message     string `json:"message"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
}

type sendArgs struct {
	ConversationID string `json:"conversation_id"`
	Utterance      string `json:"utterance"`
	Intent         string `json:"intent,omitempty"`
}

type conversationArgs struct {
	ConversationID string `json:"conversation_id"`
}

func (s *Server) registerTools() {
	inferTool := mcp.NewTool("infer_route",
		mcp.WithDescription("Find the cities a message mentions and infer which is the source and which the destination."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Free-text user message")),
		mcp.WithString("source", mcp.Description("Source city already known (optional)")),
		mcp.WithString("destination", mcp.Description("Destination city already known (optional)")),
		mcp.WithOutputSchema[resolve.Report](),
	)
	s.mcpServer.AddTool(inferTool, mcp.NewStructuredToolHandler(s.handleInfer))

	sendTool := mcp.NewTool("send_turn",
		mcp.WithDescription("Send one user utterance to a booking conversation and get the bot's decision."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to continue or start")),
		mcp.WithString("utterance", mcp.Required(), mcp.Description("User utterance")),
		mcp.WithString("intent", mcp.Description("Intent tag: affirm, deny or other (optional)"), mcp.Enum("affirm", "deny", "other")),
		mcp.WithOutputSchema[domain.TurnOutput](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSend))

	resetTool := mcp.NewTool("reset_conversation",
		mcp.WithDescription("Clear both slots and deactivate the booking form."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to reset")),
		mcp.WithOutputSchema[domain.TurnOutput](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	getTool := mcp.NewTool("get_conversation",
		mcp.WithDescription("Inspect the stored state of a booking conversation."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to inspect")),
		mcp.WithOutputSchema[domain.Conversation](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGet))
}

func (s *Server) handleInfer(ctx context.Context, request mcp.CallToolRequest, args inferArgs) (resolve.Report, error) {
	known := domain.SlotState{Source: domain.City(args.Source), Destination: domain.City(args.Destination)}
	return s.engine.Infer(args.Message, known), nil
}

func (s *Server) handleSend(ctx context.Context, request mcp.CallToolRequest, args sendArgs) (domain.TurnOutput, error) {
	if args.ConversationID == "" {
		return domain.TurnOutput{}, domain.ErrEmptyConversationID
	}
	out, err := s.engine.Send(ctx, args.ConversationID, wayfare.Message{Utterance: args.Utterance, Intent: args.Intent})
	if err != nil {
		s.logger.Error("MCP send_turn failed", "conversation_id", args.ConversationID, "error", err)
		return domain.TurnOutput{}, fmt.Errorf("send failed: %w", err)
	}
	return out, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args conversationArgs) (domain.TurnOutput, error) {
	if args.ConversationID == "" {
		return domain.TurnOutput{}, domain.ErrEmptyConversationID
	}
	out, err := s.engine.Reset(ctx, args.ConversationID)
	if err != nil {
		return domain.TurnOutput{}, fmt.Errorf("reset failed: %w", err)
	}
	return out, nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args conversationArgs) (domain.Conversation, error) {
	conv, err := s.engine.Conversation(ctx, args.ConversationID)
	if errors.Is(err, domain.ErrConversationNotFound) {
		return domain.Conversation{}, fmt.Errorf("conversation %q not found", args.ConversationID)
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("inspect failed: %w", err)
	}
	return *conv, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("wayfare://cities", "Bookable Cities",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Vocabulary().Cities())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "wayfare://cities",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
