package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/mood-journal/backend/internal/handler/journal"
	"github.com/zhouzirui/mood-journal/backend/internal/handler/page"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
	middlewarePkg "github.com/zhouzirui/mood-journal/backend/internal/middleware"
	"github.com/zhouzirui/mood-journal/backend/pkg/utils"
)

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

// NewRouter wires HTTP routes to core services.
func NewRouter(journalSvc journal.JournalService, health HealthCheck, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	page.New().RegisterRoutes(r)
	journal.New(journalSvc, log).RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				log.Warn("health check failed", "error", err)
				utils.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
