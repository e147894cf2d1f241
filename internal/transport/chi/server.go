// Package chi serves the document search HTTP API on a chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	domsession "github.com/kailas-cloud/docsearch/internal/domain/session"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	"github.com/kailas-cloud/docsearch/internal/version"
)

const (
	apiPrefix = "/api/v1"

	// SessionHeader names the session a request belongs to.
	SessionHeader = "X-Session-ID"

	// uploadField is the multipart field carrying uploaded files.
	uploadField = "files"

	// DefaultMaxUploadBytes bounds a whole multipart upload.
	DefaultMaxUploadBytes = 64 << 20

	multipartMemory = 8 << 20
	maxSearchBody   = 1 << 20
)

// Options tunes request handling. Zero values select defaults.
type Options struct {
	MaxUploadBytes      int64
	DefaultTopK         int
	MaxTopK             int
	DefaultPreviewChars int
}

// Server holds the HTTP handlers of the API.
type Server struct {
	documents     *documentuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.MaxTopK <= 0 || opts.MaxTopK > request.MaxTopK {
		opts.MaxTopK = request.MaxTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		documents:     documents,
		search:        search,
		health:        health,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Handler registers every route on r and returns it.
func Handler(s *Server, r chi.Router) chi.Router {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Route("/documents", func(r chi.Router) {
			r.Put("/", s.ReplaceDocuments)
			r.Post("/", s.AppendDocuments)
			r.Get("/", s.ListDocuments)
			r.Delete("/", s.ClearDocuments)
			r.Get("/{id}", s.GetDocument)
			r.Delete("/{id}", s.DeleteDocument)
			r.Get("/{id}/download", s.DownloadDocument)
		})
		r.Post("/search", s.Search)
		r.Get("/session", s.GetSession)
	})
	return r
}

// ReplaceDocuments handles PUT /api/v1/documents.
func (s *Server) ReplaceDocuments(w http.ResponseWriter, r *http.Request) {
	s.upload(w, r, s.documents.Replace)
}

// AppendDocuments handles POST /api/v1/documents.
func (s *Server) AppendDocuments(w http.ResponseWriter, r *http.Request) {
	s.upload(w, r, s.documents.Append)
}

type uploadFunc func(ctx context.Context, sessionID string, uploads []documentuc.Upload) ([]domdoc.Document, error)

func (s *Server) upload(w http.ResponseWriter, r *http.Request, apply uploadFunc) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	uploads, err := s.readUploads(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	docs, err := apply(r.Context(), sessionID, uploads)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, documentsToResponse(docs))
}

// ListDocuments handles GET /api/v1/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	docs, err := s.documents.List(r.Context(), sessionID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentsToResponse(docs))
}

// ClearDocuments handles DELETE /api/v1/documents.
func (s *Server) ClearDocuments(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	if err := s.documents.Clear(r.Context(), sessionID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDocument handles GET /api/v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), sessionID, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// DeleteDocument handles DELETE /api/v1/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	if err := s.documents.Delete(r.Context(), sessionID, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadDocument handles GET /api/v1/documents/{id}/download.
// The body is the document text, offered as a file named after the document.
func (s *Server) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), sessionID, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	body := doc.Download()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.ID()}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSearchBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	searchReq, err := s.searchRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	set, err := s.search.Search(ctx, sessionID, &searchReq)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if usage.Embedded() {
		w.Header().Set("X-Embedding-Texts", strconv.Itoa(usage.Texts))
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
	writeJSON(w, http.StatusOK, searchSetToResponse(&set))
}

// GetSession handles GET /api/v1/session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	info, err := s.documents.Info(r.Context(), sessionID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sessionID, info))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.String(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) searchRequest(req SearchRequest) (request.Request, error) {
	limit := s.opts.DefaultTopK
	if req.Limit != nil {
		if *req.Limit <= 0 || *req.Limit > s.opts.MaxTopK {
			return request.Request{}, fmt.Errorf("limit must be between 1 and %d", s.opts.MaxTopK)
		}
		limit = *req.Limit
	}

	previewChars := s.opts.DefaultPreviewChars
	if req.PreviewChars != nil {
		if *req.PreviewChars <= 0 || *req.PreviewChars > request.MaxPreviewChars {
			return request.Request{}, fmt.Errorf("preview_chars must be between 1 and %d", request.MaxPreviewChars)
		}
		previewChars = *req.PreviewChars
	}

	sr, err := request.New(req.Query, limit, previewChars)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return sr, nil
}

// readUploads reads every file of the multipart "files" field into memory.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) ([]documentuc.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body above %d bytes: %w", tooLarge.Limit, domain.ErrUploadTooLarge)
		}
		return nil, fmt.Errorf("parse multipart form: %w: %w", domain.ErrInvalidDocument, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	uploads := make([]documentuc.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", fh.Filename, err)
		}
		uploads = append(uploads, documentuc.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read part: %w", err)
	}
	return data, nil
}

// sessionID resolves the caller's session, answering 400 for a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := domsession.NormalizeID(r.Header.Get(SessionHeader))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return "", false
	}
	return id, true
}

// documentID reads the {id} path parameter. chi matches on the raw path when
// the request carries escapes like %2C, leaving the parameter encoded.
func documentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, true
	}
	decoded, err := url.PathUnescape(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "malformed document id")
		return "", false
	}
	return decoded, true
}

// requestLogger returns the per-request logger set by WideEventMiddleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}
