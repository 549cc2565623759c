package api

import (
	"database/sql"
	"net/http"
	"time"

	"moviebrowser/pkg/cache"
	"moviebrowser/pkg/logger"
)

type HealthHandler struct {
	db     *sql.DB
	cache  cache.Cache
	logger logger.Logger
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func NewHealthHandler(db *sql.DB, cacheInstance cache.Cache, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cacheInstance,
		logger: logger,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)
	status := "healthy"

	if err := h.db.Ping(); err != nil {
		services["database"] = err.Error()
		status = "degraded"
	} else {
		services["database"] = "healthy"
	}

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			services["cache"] = err.Error()
			status = "degraded"
		} else {
			services["cache"] = "healthy"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	})
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
}
