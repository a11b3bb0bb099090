package server

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/session"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, session.ErrExpired):
		return http.StatusGone
	case stderrors.Is(err, session.ErrFull):
		return http.StatusServiceUnavailable
	}

	code := errors.GetCode(err)
	switch {
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeSessionExpired:
		return http.StatusGone
	case code == errors.ErrCodeStepLimit:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// codeFor returns the machine-readable code for err, filling in codes for
// the session sentinels.
func codeFor(err error) errors.Code {
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return errors.ErrCodeSessionNotFound
	case stderrors.Is(err, session.ErrExpired):
		return errors.ErrCodeSessionExpired
	}
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

// writeError reports err to the client. Internal errors are logged and
// their details withheld.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: codeFor(err)})
}
