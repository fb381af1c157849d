package api

import (
	"log/slog"
	"net/http"

	"github.com/khanhng/taskscope/internal/adapter/api/handler"
	"github.com/khanhng/taskscope/internal/adapter/orgcache"
)

// NewAdminRouter creates and configures the HTTP router for admin operations.
func NewAdminRouter(cache *orgcache.Cache, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	adminHandler := handler.NewAdminHandler(cache, logger)

	mux.HandleFunc("GET /health", adminHandler.HealthCheck)

	// Hierarchy snapshot inspection and explicit invalidation.
	mux.HandleFunc("GET /admin/hierarchy", adminHandler.GetHierarchyInfo)
	mux.HandleFunc("POST /admin/hierarchy/refresh", adminHandler.RefreshHierarchy)

	return mux
}
