package http

import (
	"net/http"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// CreateSessionRequest is the body of POST /sessions. All fields are optional.
type CreateSessionRequest struct {
	ID    string         `json:"id,omitempty"`
	Table string         `json:"table,omitempty"`
	Start domain.StateID `json:"start,omitempty"`
}

// ResetRequest is the body of POST /sessions/{id}/reset.
type ResetRequest struct {
	State domain.StateID `json:"state"`
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if !s.decode(w, r, &body) {
		return
	}

	start := body.Start
	if start == "" {
		table, err := s.table(body.Table)
		if err != nil {
			s.writeError(w, err)
			return
		}
		start = s.startOf(table)
	}
	tableName := body.Table
	if tableName == "" {
		tableName = s.Table.Name()
	}

	snap, err := s.Sessions.Create(r.Context(), body.ID, tableName, start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepSession handles the POST /sessions/{id}/step request.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request) {
	var body StepRequest
	if !s.decode(w, r, &body) {
		return
	}
	symbol, err := parseSymbolField(body.Symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.Sessions.Step(r.Context(), chi.URLParam(r, "id"), symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// ProcessSession handles the POST /sessions/{id}/process request.
func (s *Server) ProcessSession(w http.ResponseWriter, r *http.Request) {
	var body ProcessRequest
	if !s.decode(w, r, &body) {
		return
	}

	res, err := s.Sessions.Process(r.Context(), chi.URLParam(r, "id"), body.Input, body.IncludeInitial)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.Metrics != nil {
		s.Metrics.ObserveProcess(len(res.Transitions))
	}
	s.writeJSON(w, http.StatusOK, res)
}

// ResetSession handles the POST /sessions/{id}/reset request.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	var body ResetRequest
	if !s.decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")
	if body.State == "" {
		current, err := s.Sessions.Load(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		table, err := s.Tables.Get(current.Table)
		if err != nil {
			s.writeError(w, err)
			return
		}
		body.State = s.startOf(table)
	}

	snap, err := s.Sessions.Reset(r.Context(), id, body.State)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// startOf is the default start of table: the server's start for its default table,
// the first state otherwise.
func (s *Server) startOf(table *domain.Table) domain.StateID {
	if table.Name() == s.Table.Name() {
		return s.Start
	}
	return table.At(0).ID
}
