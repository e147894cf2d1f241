package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// defaultErrorHandlers maps sentinels to responses; the first match wins.
func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrRankingUnavailable, http.StatusServiceUnavailable, CodeRankingUnavailable),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, CodeUploadTooLarge),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidSession, http.StatusBadRequest, CodeValidationFailed),
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRankingUnavailable,
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrUploadTooLarge,
		domain.ErrInvalidQuery,
		domain.ErrInvalidDocument,
		domain.ErrInvalidSession,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.requestLogger(r)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
