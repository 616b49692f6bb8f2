package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/observability"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/aretw0/moore/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server exposes machines over HTTP: stateless processing plus persisted sessions.
type Server struct {
	Tables   *registry.Registry
	Sessions *session.Manager
	Streams  *StreamManager
	Metrics  *observability.Metrics

	// Table and Start are used when a request names neither.
	Table *domain.Table
	Start domain.StateID

	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithRegistry sets the tables requests may name.
func WithRegistry(tables *registry.Registry) Option {
	return func(s *Server) {
		s.Tables = tables
	}
}

// WithSessions sets the session manager. Without it sessions live in memory.
func WithSessions(mgr *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = mgr
	}
}

// WithMetrics enables /metrics and process length observations.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithDefaultTable sets the table and start state used when a request names neither.
func WithDefaultTable(table *domain.Table, start domain.StateID) Option {
	return func(s *Server) {
		s.Table = table
		s.Start = start
	}
}

// WithStreams shares a StreamManager, e.g. one already wired as a session observer.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer builds a Server with defaults for anything not configured:
// the reference table starting at A, an in-memory session store and a fresh StreamManager.
func NewServer(opts ...Option) *Server {
	s := &Server{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.Table == nil {
		s.Table = domain.Reference()
		s.Start = domain.DefaultStart
	}
	if s.Tables == nil {
		s.Tables = registry.NewRegistry(s.Table)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	if s.Sessions == nil {
		s.Sessions = session.NewManager(memory.NewStore(),
			session.WithRegistry(s.Tables),
			session.WithChangeObserver(s.Streams.Observe),
			session.WithLogger(s.logger),
		)
	}
	return s
}

// NewHandler creates the HTTP handler with the given options.
func NewHandler(opts ...Option) http.Handler {
	return NewServer(opts...).Handler()
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/table", s.GetTable)
	r.Post("/process", s.PostProcess)
	r.Post("/step", s.PostStep)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/step", s.StepSession)
			r.Post("/process", s.ProcessSession)
			r.Post("/reset", s.ResetSession)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "moore-http",
		"version": strings.TrimSpace(moore.Version),
		"table":   s.Table.Name(),
		"start":   s.Start,
		"tables":  s.Tables.Names(),
	})
}

// TableResponse describes a table and its default start state.
type TableResponse struct {
	Name    string          `json:"name"`
	Start   domain.StateID  `json:"start,omitempty"`
	States  []domain.Row    `json:"states"`
	Outputs []domain.Output `json:"outputs"`
}

// GetTable handles the GET /table request. ?name= selects a registered table.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	table, err := s.table(r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := TableResponse{
		Name:    table.Name(),
		States:  table.Rows(),
		Outputs: table.Outputs(),
	}
	if table == s.Table {
		resp.Start = s.Start
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	Table          string         `json:"table,omitempty"`
	Start          domain.StateID `json:"start,omitempty"`
	Input          string         `json:"input"`
	IncludeInitial bool           `json:"include_initial"`
}

// ProcessResponse is the result of a stateless run.
type ProcessResponse struct {
	Table       string              `json:"table"`
	Start       domain.StateID      `json:"start"`
	Input       string              `json:"input"`
	Outputs     []domain.Output     `json:"outputs"`
	Final       domain.StateID      `json:"final"`
	Transitions []domain.Transition `json:"transitions"`
}

// PostProcess handles the POST /process request: a fresh machine per request.
func (s *Server) PostProcess(w http.ResponseWriter, r *http.Request) {
	var body ProcessRequest
	if !s.decode(w, r, &body) {
		return
	}

	m, err := s.machine(body.Table, body.Start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	start := m.Current()
	initial := m.Output()

	trace, err := m.Trace(body.Input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.Metrics != nil {
		s.Metrics.ObserveProcess(len(trace))
	}

	s.writeJSON(w, http.StatusOK, ProcessResponse{
		Table:       m.Table().Name(),
		Start:       start,
		Input:       body.Input,
		Outputs:     collectOutputs(initial, trace, body.IncludeInitial),
		Final:       m.Current(),
		Transitions: trace,
	})
}

// StepRequest is the body of POST /step and POST /sessions/{id}/step.
type StepRequest struct {
	Table  string         `json:"table,omitempty"`
	State  domain.StateID `json:"state,omitempty"`
	Symbol string         `json:"symbol"`
}

// PostStep handles the POST /step request: one transition from a given state.
func (s *Server) PostStep(w http.ResponseWriter, r *http.Request) {
	var body StepRequest
	if !s.decode(w, r, &body) {
		return
	}
	symbol, err := parseSymbolField(body.Symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}

	m, err := s.machine(body.Table, body.State)
	if err != nil {
		s.writeError(w, err)
		return
	}
	from := m.Current()
	out, err := m.Step(symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sym, _ := domain.ParseSymbol(symbol)
	s.writeJSON(w, http.StatusOK, domain.Transition{From: from, Symbol: sym, To: m.Current(), Output: out})
}

func (s *Server) table(name string) (*domain.Table, error) {
	if name == "" {
		return s.Table, nil
	}
	return s.Tables.Get(name)
}

func (s *Server) machine(tableName string, start domain.StateID) (*moore.Machine, error) {
	table, err := s.table(tableName)
	if err != nil {
		return nil, err
	}
	if start == "" {
		start = s.startOf(table)
	}
	opts := []moore.Option{moore.WithTable(table), moore.WithLogger(s.logger)}
	if s.Metrics != nil {
		opts = append(opts, moore.WithLifecycleHooks(s.Metrics.Hooks()))
	}
	return moore.New(start, opts...)
}

func collectOutputs(initial domain.Output, trace []domain.Transition, includeInitial bool) []domain.Output {
	outputs := make([]domain.Output, 0, len(trace)+1)
	if includeInitial {
		outputs = append(outputs, initial)
	}
	for _, tr := range trace {
		outputs = append(outputs, tr.Output)
	}
	return outputs
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "bad_request"})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
