package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/khanhng/taskscope/internal/adapter/api/middleware"
	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/domain"
	"github.com/khanhng/taskscope/internal/usecase"
)

// Error codes of the manager-view contract.
const (
	codeBadRequest    = "BAD_REQUEST"
	codeScopeMismatch = "SCOPE_MISMATCH"
	codeUnknownUnit   = "UNKNOWN_UNIT"
	codeStoreTimeout  = "STORE_TIMEOUT"
	codeInconsistency = "INTERNAL_INCONSISTENCY"
	codeInternal      = "INTERNAL"
)

// managerViewQuerier is the slice of ManagerViewUseCase the handler needs.
type managerViewQuerier interface {
	Query(ctx context.Context, principal domain.Principal, req usecase.ViewRequest) (*usecase.ViewResult, error)
}

// ManagerViewHandler handles GET /tasks/manager-view.
type ManagerViewHandler struct {
	useCase         managerViewQuerier
	logger          *slog.Logger
	metrics         *metrics.ViewMetrics
	queryTimeout    time.Duration
	defaultPageSize int
	maxPageSize     int
}

// NewManagerViewHandler creates a new ManagerViewHandler.
func NewManagerViewHandler(uc managerViewQuerier, logger *slog.Logger, m *metrics.ViewMetrics, queryTimeout time.Duration, defaultPageSize, maxPageSize int) *ManagerViewHandler {
	return &ManagerViewHandler{
		useCase:         uc,
		logger:          logger,
		metrics:         m,
		queryTimeout:    queryTimeout,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

type viewResponse struct {
	Success bool                 `json:"success"`
	Data    []domain.Task        `json:"data"`
	KPI     domain.KpiSnapshot   `json:"kpi"`
	Scope   domain.ResolvedScope `json:"scope"`
	Page    usecase.PageInfo     `json:"page"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ServeHTTP processes a manager-view query for the authenticated principal.
func (h *ManagerViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		// The auth middleware guarantees a principal; reaching here is a
		// wiring bug, not a client error.
		h.logger.Error("no principal in request context")
		h.writeError(w, http.StatusInternalServerError, codeInternal, "internal")
		return
	}

	req, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, codeBadRequest, "bad_request")
		return
	}

	// The store call is the only suspension point; bound it so a slow store
	// fails the request as retryable instead of hanging it.
	ctx, cancel := context.WithTimeout(r.Context(), h.queryTimeout)
	defer cancel()

	result, err := h.useCase.Query(ctx, principal, req)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	h.countOutcome("ok")
	h.respondJSON(w, http.StatusOK, viewResponse{
		Success: true,
		Data:    result.Tasks,
		KPI:     result.KPI,
		Scope:   result.Scope,
		Page:    result.Page,
	})
}

func (h *ManagerViewHandler) parseRequest(r *http.Request) (usecase.ViewRequest, error) {
	q := r.URL.Query()
	req := usecase.ViewRequest{
		Scope: domain.ViewScope{
			ViewLevel:  domain.ViewLevel(q.Get("view_level")),
			Department: q.Get("department"),
			Location:   q.Get("location"),
			TeamID:     q.Get("team_id"),
		},
		Granularity: domain.BucketDay,
		Page:        1,
		PageSize:    h.defaultPageSize,
	}

	if req.Scope.ViewLevel != "" && !domain.ValidViewLevel(req.Scope.ViewLevel) {
		return req, fmt.Errorf("invalid view_level %q", req.Scope.ViewLevel)
	}

	if status := q.Get("status"); status != "" {
		if !domain.ValidStatus(domain.TaskStatus(status)) {
			return req, fmt.Errorf("invalid status %q", status)
		}
		req.Filter.Status = domain.TaskStatus(status)
	}

	if from := q.Get("from"); from != "" {
		t, err := parseTimeParam(from)
		if err != nil {
			return req, err
		}
		req.Filter.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := parseTimeParam(to)
		if err != nil {
			return req, err
		}
		req.Filter.To = t
	}
	if !req.Filter.From.IsZero() && !req.Filter.To.IsZero() && req.Filter.To.Before(req.Filter.From) {
		return req, fmt.Errorf("to precedes from")
	}

	if bucket := q.Get("bucket"); bucket != "" {
		if !domain.ValidGranularity(domain.BucketGranularity(bucket)) {
			return req, fmt.Errorf("invalid bucket %q", bucket)
		}
		req.Granularity = domain.BucketGranularity(bucket)
	}

	if page := q.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return req, fmt.Errorf("invalid page %q", page)
		}
		req.Page = n
	}
	if size := q.Get("pageSize"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 {
			return req, fmt.Errorf("invalid pageSize %q", size)
		}
		if n > h.maxPageSize {
			n = h.maxPageSize
		}
		req.PageSize = n
	}

	return req, nil
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates.
func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *ManagerViewHandler) writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrScopeMismatch):
		h.writeError(w, http.StatusForbidden, codeScopeMismatch, "scope_mismatch")
	case errors.Is(err, domain.ErrUnknownUnit):
		h.writeError(w, http.StatusBadRequest, codeUnknownUnit, "bad_request")
	case errors.Is(err, domain.ErrStoreTimeout):
		h.writeError(w, http.StatusGatewayTimeout, codeStoreTimeout, "store_timeout")
	case errors.Is(err, domain.ErrInternalInconsistency):
		h.logger.Error("manager-view request failed consistency check", "error", err)
		h.writeError(w, http.StatusInternalServerError, codeInconsistency, "inconsistency")
	default:
		h.logger.Error("manager-view request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, codeInternal, "internal")
	}
}

func (h *ManagerViewHandler) writeError(w http.ResponseWriter, status int, code, outcome string) {
	h.countOutcome(outcome)
	h.respondJSON(w, status, errorResponse{Success: false, Error: code})
}

func (h *ManagerViewHandler) countOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *ManagerViewHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
