package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/khanhng/taskscope/internal/domain"
)

// hierarchyCache is the slice of the org cache the admin surface needs.
type hierarchyCache interface {
	Snapshot(ctx context.Context) (*domain.OrgTree, error)
	Invalidate(ctx context.Context) error
}

// AdminHandler handles HTTP requests for operational administration.
type AdminHandler struct {
	cache  hierarchyCache
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cache hierarchyCache, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{cache: cache, logger: logger}
}

// HealthCheck is a simple health check endpoint.
func (h *AdminHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetHierarchyInfo reports the size of the current hierarchy snapshot.
// GET /admin/hierarchy
func (h *AdminHandler) GetHierarchyInfo(w http.ResponseWriter, r *http.Request) {
	tree, err := h.cache.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to load hierarchy snapshot", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"units": tree.Size(),
	})
}

// RefreshHierarchy forces a rebuild of the hierarchy snapshot.
// POST /admin/hierarchy/refresh
func (h *AdminHandler) RefreshHierarchy(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("failed to refresh hierarchy snapshot", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (h *AdminHandler) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode admin response", "error", err)
	}
}
