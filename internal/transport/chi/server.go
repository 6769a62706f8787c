// Package chi serves the search API over HTTP.
package chi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/logger"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
	"github.com/kailas-cloud/sitesearch/internal/version"
)

const maxBodyBytes = 1 << 20

// Stream content types a client may negotiate on POST /.
const (
	ContentTypeNDJSON = "application/x-ndjson"
	ContentTypeTSV    = "text/tab-separated-values"
)

// Server handles the search API routes.
type Server struct {
	search        SearchService
	exporter      Exporter
	health        HealthChecker
	logger        *zap.Logger
	maxPageSize   int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxPageSize caps numRecords on
// paginated searches.
func NewServer(
	search SearchService,
	exporter Exporter,
	health HealthChecker,
	logger *zap.Logger,
	maxPageSize int,
) *Server {
	if maxPageSize <= 0 || maxPageSize > request.MaxNumRecords {
		maxPageSize = request.MaxNumRecords
	}
	return &Server{
		search:        search,
		exporter:      exporter,
		health:        health,
		logger:        logger,
		maxPageSize:   maxPageSize,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers every API route on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/", s.SearchGet)
	r.Post("/", s.SearchPost)
	r.Post("/field-counts", s.FieldCounts)
	r.Post("/stream", s.Stream)
	r.Get("/categories-metadata", s.CategoriesMetadata)
	r.Get("/build-status", s.BuildStatus)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchGet handles GET /.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	req, err := params.toRequest()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runSearch(w, r, &req)
}

// SearchPost handles POST /. A client accepting a stream content type gets
// an export instead of a page of results.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	if contentType, ok := negotiateStream(r.Header.Get("Accept")); ok {
		s.stream(w, r, contentType)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := request.FromJSON(body, request.SearchOptions)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runSearch(w, r, &req)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req *request.Request) {
	if p, ok := req.Pagination(); ok && p.NumRecords() > s.maxPageSize {
		s.handleDomainError(w, r, domain.InvalidRequest("numRecords must be <= %d", s.maxPageSize))
		return
	}
	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FieldCounts handles POST /field-counts.
func (s *Server) FieldCounts(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := request.FromJSON(body, request.FieldCountsOptions)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	counts, err := s.search.FieldCounts(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// Stream handles POST /stream.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	contentType, ok := negotiateStream(r.Header.Get("Accept"))
	if !ok {
		contentType = ContentTypeTSV
	}
	s.stream(w, r, contentType)
}

// stream validates the request and loads metadata before any byte is
// written, so those failures still get a JSON error. Once streaming has
// begun a failure can only abort the connection.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, contentType string) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := request.FromJSON(body, request.StreamOptions)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	meta, err := s.search.Metadata(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	// exports outlive the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil &&
		!errors.Is(err, http.ErrNotSupported) {
		log.Warn("clear write deadline", zap.Error(err))
	}
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := s.exporter.Export(r.Context(), &req, meta, w); err != nil {
		log.Error("export aborted", zap.Error(err))
		panic(http.ErrAbortHandler)
	}
}

// CategoriesMetadata handles GET /categories-metadata.
func (s *Server) CategoriesMetadata(w http.ResponseWriter, r *http.Request) {
	params, err := bindCategoriesParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	project := ""
	if params.ProjectID != nil {
		project = strings.TrimSpace(*params.ProjectID)
	}
	catalog, err := s.search.Categories(r.Context(), project)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// BuildStatus handles GET /build-status.
func (s *Server) BuildStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, version.BuildStatus())
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// readBody reads a bounded request body, answering 400 itself on failure.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("read request body: %v", err))
		return nil, false
	}
	return body, true
}

// negotiateStream returns the stream content type named in an Accept header.
func negotiateStream(accept string) (string, bool) {
	for part := range strings.SplitSeq(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case ContentTypeNDJSON, ContentTypeTSV:
			return mediaType, true
		}
	}
	return "", false
}
