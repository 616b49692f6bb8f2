package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/internal/presentation/graph"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TableURI is the resource exposing the default table.
const TableURI = "moore://table"

// ProcessArgs are the arguments of the process tool.
type ProcessArgs struct {
	Table          string `json:"table,omitempty"`
	Start          string `json:"start,omitempty"`
	Input          string `json:"input"`
	IncludeInitial bool   `json:"include_initial,omitempty"`
}

// ProcessResult is the structured result of the process tool.
type ProcessResult struct {
	Table       string              `json:"table" jsonschema_description:"Name of the table used"`
	Start       domain.StateID      `json:"start" jsonschema_description:"State before the first symbol"`
	Outputs     []domain.Output     `json:"outputs" jsonschema_description:"Output sequence"`
	Final       domain.StateID      `json:"final" jsonschema_description:"State after the last symbol"`
	Transitions []domain.Transition `json:"transitions" jsonschema_description:"One record per consumed symbol"`
}

// StepArgs are the arguments of the step tool.
type StepArgs struct {
	Table  string `json:"table,omitempty"`
	State  string `json:"state"`
	Symbol string `json:"symbol"`
}

// TableArgs select a registered table.
type TableArgs struct {
	Table string `json:"table,omitempty"`
}

// TableResult describes a table.
type TableResult struct {
	Name    string          `json:"name"`
	Start   domain.StateID  `json:"start,omitempty"`
	States  []domain.Row    `json:"states"`
	Outputs []domain.Output `json:"outputs"`
}

// Server exposes stateless machine operations as an MCP Server.
type Server struct {
	tables    *registry.Registry
	table     *domain.Table
	start     domain.StateID
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithRegistry sets the tables tools may name.
func WithRegistry(tables *registry.Registry) Option {
	return func(s *Server) {
		s.tables = tables
	}
}

// WithDefaultTable sets the table and start state used when a call names neither.
func WithDefaultTable(table *domain.Table, start domain.StateID) Option {
	return func(s *Server) {
		s.table = table
		s.start = start
	}
}

// WithLogger sets the logger. Never log to stdout when serving over stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.table == nil {
		s.table = domain.Reference()
		s.start = domain.DefaultStart
	}
	if s.tables == nil {
		s.tables = registry.NewRegistry(s.table)
	}
	s.mcpServer = server.NewMCPServer("moore-mcp", strings.TrimSpace(moore.Version),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. to mount extra tools.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
	processTool := mcp.NewTool("process",
		mcp.WithDescription("Run a binary input string through a fresh machine and return the output sequence."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Sequence of '0' and '1' characters")),
		mcp.WithString("start", mcp.Description("Start state (defaults to the table's start)")),
		mcp.WithString("table", mcp.Description("Registered table name (defaults to the served table)")),
		mcp.WithBoolean("include_initial", mcp.Description("Prepend the output of the start state")),
		mcp.WithOutputSchema[ProcessResult](),
	)
	s.mcpServer.AddTool(processTool, mcp.NewStructuredToolHandler(s.handleProcess))

	stepTool := mcp.NewTool("step",
		mcp.WithDescription("Apply one input symbol to a state and return the transition taken."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Current state")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("'0' or '1'")),
		mcp.WithString("table", mcp.Description("Registered table name")),
		mcp.WithOutputSchema[domain.Transition](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))

	tableTool := mcp.NewTool("get_table",
		mcp.WithDescription("Get the transition table: every state with its output and successors."),
		mcp.WithString("table", mcp.Description("Registered table name")),
		mcp.WithOutputSchema[TableResult](),
	)
	s.mcpServer.AddTool(tableTool, mcp.NewStructuredToolHandler(s.handleGetTable))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a Mermaid flowchart of the table."),
		mcp.WithString("table", mcp.Description("Registered table name")),
	), s.handleGetGraph)
}

func (s *Server) resolve(name string) (*domain.Table, domain.StateID, error) {
	if name == "" || name == s.table.Name() {
		return s.table, s.start, nil
	}
	table, err := s.tables.Get(name)
	if err != nil {
		return nil, "", err
	}
	return table, table.At(0).ID, nil
}

func (s *Server) handleProcess(ctx context.Context, request mcp.CallToolRequest, args ProcessArgs) (ProcessResult, error) {
	table, start, err := s.resolve(args.Table)
	if err != nil {
		return ProcessResult{}, err
	}
	if args.Start != "" {
		start = domain.StateID(args.Start)
	}

	m, err := moore.New(start, moore.WithTable(table), moore.WithLogger(s.logger))
	if err != nil {
		return ProcessResult{}, err
	}
	initial := m.Output()

	trace, err := m.Trace(args.Input)
	if err != nil {
		s.logger.Debug("MCP process: input rejected", "err", err)
		return ProcessResult{}, err
	}

	outputs := make([]domain.Output, 0, len(trace)+1)
	if args.IncludeInitial {
		outputs = append(outputs, initial)
	}
	for _, tr := range trace {
		outputs = append(outputs, tr.Output)
	}

	return ProcessResult{
		Table:       table.Name(),
		Start:       start,
		Outputs:     outputs,
		Final:       m.Current(),
		Transitions: trace,
	}, nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args StepArgs) (domain.Transition, error) {
	table, _, err := s.resolve(args.Table)
	if err != nil {
		return domain.Transition{}, err
	}

	r, size := utf8.DecodeRuneInString(args.Symbol)
	if size == 0 || size != len(args.Symbol) {
		return domain.Transition{}, &domain.InvalidSymbolError{Symbol: r, Position: -1}
	}

	m, err := moore.New(domain.StateID(args.State), moore.WithTable(table), moore.WithLogger(s.logger))
	if err != nil {
		return domain.Transition{}, err
	}
	from := m.Current()
	out, err := m.Step(r)
	if err != nil {
		return domain.Transition{}, err
	}
	sym, _ := domain.ParseSymbol(r)
	return domain.Transition{From: from, Symbol: sym, To: m.Current(), Output: out}, nil
}

func (s *Server) handleGetTable(ctx context.Context, request mcp.CallToolRequest, args TableArgs) (TableResult, error) {
	table, start, err := s.resolve(args.Table)
	if err != nil {
		return TableResult{}, err
	}
	return TableResult{
		Name:    table.Name(),
		Start:   start,
		States:  table.Rows(),
		Outputs: table.Outputs(),
	}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, start, err := s.resolve(request.GetString("table", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(table, start, nil)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TableURI, "Transition Table",
		mcp.WithResourceDescription("States, outputs and successors of the served table"),
		mcp.WithMIMEType("application/json"),
	), s.readTable)
}

func (s *Server) readTable(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(TableResult{
		Name:    s.table.Name(),
		Start:   s.start,
		States:  s.table.Rows(),
		Outputs: s.table.Outputs(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode table: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TableURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
