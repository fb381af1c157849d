package api

import (
	"log/slog"
	"net/http"

	"github.com/khanhng/taskscope/internal/adapter/api/handler"
	"github.com/khanhng/taskscope/internal/adapter/api/middleware"
	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/domain"
	"github.com/khanhng/taskscope/internal/pkg/config"
	"github.com/khanhng/taskscope/internal/usecase"
)

// NewRouter creates and configures the main HTTP router for the manager-view
// service.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	sessions domain.SessionRepository,
	viewUseCase *usecase.ManagerViewUseCase,
	m *metrics.ViewMetrics,
) http.Handler {
	mux := http.NewServeMux()

	viewHandler := handler.NewManagerViewHandler(
		viewUseCase, logger, m,
		cfg.StoreQueryTimeout, cfg.DefaultPageSize, cfg.MaxPageSize,
	)

	authMiddleware := middleware.Auth(sessions, logger)

	mux.Handle("GET /tasks/manager-view", authMiddleware(viewHandler))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
