// Package chi exposes the ranking and candidate use cases over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/domain"
	dombatch "github.com/kailas-cloud/resumerank/internal/domain/batch"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/request"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/weight"
	candidateuc "github.com/kailas-cloud/resumerank/internal/usecase/candidate"
	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
)

const (
	maxJSONBody   = 1 << 20  // 1MB
	maxBatchBody  = 64 << 20 // 64MB
	maxFormMemory = 1 << 20

	headerEmbeddingTokens = "X-Embedding-Tokens"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the HTTP API.
type Server struct {
	ranker         Ranker
	candidates     CandidateService
	snapshot       SnapshotRefresher
	health         HealthChecker
	defaultWeights weight.Pair
	defaultLimit   int
	validate       *validator.Validate
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. Default weights are 50/50 and every candidate is returned.
func NewServer(
	ranker Ranker,
	candidates CandidateService,
	snapshot SnapshotRefresher,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		ranker:         ranker,
		candidates:     candidates,
		snapshot:       snapshot,
		health:         health,
		defaultWeights: weight.MustNew(0.5, 0.5),
		validate:       validator.New(),
		logger:         logger,
	}
	s.errorHandlers = make([]errorHandler, len(domainErrors))
	for i, de := range domainErrors {
		s.errorHandlers[i] = sentinelHandler(de.sentinel, de.status, de.code)
	}
	return s
}

// WithDefaults sets the weights used when a rank request omits them and the default result limit.
func (s *Server) WithDefaults(w weight.Pair, limit int) *Server {
	s.defaultWeights = w
	if limit > 0 {
		s.defaultLimit = limit
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Post("/rank", s.Rank)

	r.Route("/candidates", func(r gochi.Router) {
		r.Get("/", s.ListCandidates)
		r.Post("/", s.CreateCandidate)
		r.Post("/batch", s.BatchCreateCandidates)
		r.Get("/{id}", s.GetCandidate)
		r.Delete("/{id}", s.DeleteCandidate)
	})
	r.Get("/resumes/{id}", s.GetResume)

	r.Post("/snapshot/refresh", s.RefreshSnapshot)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Rank handles POST /rank. Accepts JSON or the form fields of the upload page.
func (s *Server) Rank(w http.ResponseWriter, r *http.Request) {
	var (
		req *request.Request
		err error
	)
	if isJSON(r) {
		req, err = s.rankRequestFromJSON(w, r)
	} else {
		req, err = s.rankRequestFromForm(w, r)
	}
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	out, err := s.ranker.Rank(ctx, req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	setUsageHeader(w, usage)

	writeJSON(w, http.StatusOK, rankResponseFrom(req, out))
}

// CreateCandidate handles POST /candidates.
func (s *Server) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var body createCandidateRequest
	if err := s.decodeJSON(w, r, maxJSONBody, &body); err != nil {
		s.handleRequestError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	c, err := s.candidates.Ingest(ctx, body.ID, body.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	setUsageHeader(w, usage)

	writeJSON(w, http.StatusCreated, candidateResponseFrom(&c, false))
}

// BatchCreateCandidates handles POST /candidates/batch. Existing ids are reported as skipped.
func (s *Server) BatchCreateCandidates(w http.ResponseWriter, r *http.Request) {
	var body batchCreateRequest
	if err := s.decodeJSON(w, r, maxBatchBody, &body); err != nil {
		s.handleRequestError(w, err)
		return
	}

	items := make([]candidateuc.Item, len(body.Candidates))
	for i, c := range body.Candidates {
		items[i] = candidateuc.Item{ID: c.ID, Text: c.Text}
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results := s.candidates.IngestBatch(ctx, items)
	setUsageHeader(w, usage)

	resp := batchResponse{Items: make([]batchResultItem, len(results))}
	for i, res := range results {
		resp.Items[i] = batchResultFrom(res)
	}
	resp.Succeeded, resp.Skipped, resp.Failed = dombatch.Counts(results)

	writeJSON(w, http.StatusOK, resp)
}

// ListCandidates handles GET /candidates.
func (s *Server) ListCandidates(w http.ResponseWriter, r *http.Request) {
	cands, err := s.candidates.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]candidateResponse, len(cands))
	for i := range cands {
		items[i] = candidateResponseFrom(&cands[i], false)
	}
	writeJSON(w, http.StatusOK, candidateListResponse{Items: items, Total: len(items)})
}

// GetCandidate handles GET /candidates/{id}.
func (s *Server) GetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.candidates.Get(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidateResponseFrom(&c, true))
}

// GetResume handles GET /resumes/{id} and returns the stored resume text.
func (s *Server) GetResume(w http.ResponseWriter, r *http.Request) {
	c, err := s.candidates.Get(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(c.Text()))
}

// DeleteCandidate handles DELETE /candidates/{id}.
func (s *Server) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if err := s.candidates.Delete(r.Context(), gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshSnapshot handles POST /snapshot/refresh.
func (s *Server) RefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	n, err := s.snapshot.Refresh(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Candidates: n})
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

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) rankRequestFromJSON(w http.ResponseWriter, r *http.Request) (*request.Request, error) {
	var body rankRequest
	if err := s.decodeJSON(w, r, maxJSONBody, &body); err != nil {
		return nil, err
	}

	kw, sem := s.defaultWeights.Keyword(), s.defaultWeights.Semantic()
	if body.KeywordWeight != nil {
		kw = *body.KeywordWeight
	}
	if body.SemanticWeight != nil {
		sem = *body.SemanticWeight
	}
	pair, err := weight.New(kw, sem)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	return s.buildRequest(body.JobDescription, body.Requirements, pair, body.Limit)
}

func (s *Server) rankRequestFromForm(w http.ResponseWriter, r *http.Request) (*request.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid form: %w", errBadRequest)
	}

	form := rankForm{
		JobDescription: r.PostForm.Get("job_description"),
		Requirements:   r.PostForm.Get("requirements"),
	}
	if form.KeywordWeight, err = formInt(r.PostForm, "keyword_weight"); err != nil {
		return nil, err
	}
	if form.SemanticWeight, err = formInt(r.PostForm, "semantic_weight"); err != nil {
		return nil, err
	}
	limit, err := formInt(r.PostForm, "limit")
	if err != nil {
		return nil, err
	}
	if limit != nil {
		form.Limit = *limit
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, err //nolint:wrapcheck // mapped by handleRequestError
	}

	pair := s.defaultWeights
	if form.KeywordWeight != nil || form.SemanticWeight != nil {
		kwPct := int(s.defaultWeights.Keyword() * weight.PercentScale)
		semPct := int(s.defaultWeights.Semantic() * weight.PercentScale)
		if form.KeywordWeight != nil {
			kwPct = *form.KeywordWeight
		}
		if form.SemanticWeight != nil {
			semPct = *form.SemanticWeight
		}
		if pair, err = weight.FromPercent(kwPct, semPct); err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
	}
	return s.buildRequest(form.JobDescription, form.Requirements, pair, form.Limit)
}

func (s *Server) buildRequest(query, requirements string, w weight.Pair, limit int) (*request.Request, error) {
	if limit == 0 {
		limit = s.defaultLimit
	}
	req, err := request.New(query, requirements, w, limit)
	if err != nil {
		return nil, fmt.Errorf("build rank request: %w", err)
	}
	return &req, nil
}

// decodeJSON reads a size-limited JSON body into v and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", errBadRequest)
	}
	if err := s.validate.Struct(v); err != nil {
		return err //nolint:wrapcheck // mapped by handleRequestError
	}
	return nil
}

var errBadRequest = errors.New("bad request")

// handleRequestError maps decoding and validation failures, then falls back to domain errors.
func (s *Server) handleRequestError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, codeValidationFailed, validationMessage(verrs))
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	default:
		s.handleDomainError(w, err)
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func validationMessage(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "validation error: invalid request"
	}
	ve := verrs[0]
	if ve.Param() != "" {
		return fmt.Sprintf("validation error: %s - %s=%s", ve.Field(), ve.Tag(), ve.Param())
	}
	return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
}

func formInt(form url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if strings.HasSuffix(key, "_weight") {
			return nil, fmt.Errorf("%s must be an integer percentage: %w", key, domain.ErrInvalidWeight)
		}
		return nil, fmt.Errorf("%s must be an integer: %w", key, domain.ErrInvalidRequest)
	}
	return &v, nil
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// setUsageHeader reports embedding tokens when the request reached the embedder.
func setUsageHeader(w http.ResponseWriter, u *domain.EmbeddingUsage) {
	if u.Used() {
		w.Header().Set(headerEmbeddingTokens, strconv.Itoa(u.TotalTokens()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// domainError maps a sentinel to its HTTP status and error code.
type domainError struct {
	sentinel error
	status   int
	code     string
}

// domainErrors is the ordered table of sentinels whose message is safe to return to clients.
// The first match wins.
var domainErrors = []domainError{
	{domain.ErrCandidateNotFound, http.StatusNotFound, codeCandidateNotFound},
	{domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists},
	{domain.ErrInvalidWeight, http.StatusBadRequest, codeInvalidWeight},
	{domain.ErrInvalidCandidate, http.StatusBadRequest, codeInvalidCandidate},
	{domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed},
	{domain.ErrDimensionMismatch, http.StatusBadRequest, codeDimensionMismatch},
	{domain.ErrMalformedEmbedding, http.StatusInternalServerError, codeMalformedEmbedding},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError},
	{domain.ErrSnapshotNotLoaded, http.StatusServiceUnavailable, codeSnapshotNotLoaded},
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, de := range domainErrors {
		if errors.Is(err, de.sentinel) {
			return de.sentinel.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func errorCode(err error) string {
	for _, de := range domainErrors {
		if errors.Is(err, de.sentinel) {
			return de.code
		}
	}
	return codeInternalError
}
