package http

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/aretw0/moore/pkg/session"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Position *int   `json:"position,omitempty"`
}

var errMissingSymbol = errors.New("symbol is required")

// statusFor maps domain errors to HTTP status codes and stable error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidSymbol):
		return http.StatusBadRequest, "invalid_symbol"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest, "invalid_state"
	case errors.Is(err, domain.ErrInvalidTable):
		return http.StatusBadRequest, "invalid_table"
	case errors.Is(err, errMissingSymbol):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, registry.ErrTableNotFound):
		return http.StatusNotFound, "table_not_found"
	case errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict, "session_exists"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	resp := ErrorResponse{Error: err.Error(), Code: code}

	var symErr *domain.InvalidSymbolError
	if errors.As(err, &symErr) && symErr.Position >= 0 {
		pos := symErr.Position
		resp.Position = &pos
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	} else {
		s.logger.Debug("Request rejected", "code", code, "err", err)
	}
	s.writeJSON(w, status, resp)
}

// parseSymbolField extracts the single rune of a JSON symbol field.
// Anything that is not exactly one rune is reported as an invalid symbol.
func parseSymbolField(v string) (rune, error) {
	if v == "" {
		return 0, errMissingSymbol
	}
	r, size := utf8.DecodeRuneInString(v)
	if size != len(v) {
		return 0, &domain.InvalidSymbolError{Symbol: r, Position: -1}
	}
	return r, nil
}
