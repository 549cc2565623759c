package api

import (
	"net/http"
	"strconv"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

type AuditLogHandler struct {
	service  domain.AuditLogService
	sessions *SessionStore
	logger   logger.Logger
}

func NewAuditLogHandler(service domain.AuditLogService, sessions *SessionStore, logger logger.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *AuditLogHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	if account.Rank() != domain.RankAdmin {
		writeModelError(w, domain.AuthorizationError("audit logs require administrator rank"))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	logs, err := h.service.GetAllLogs(page, pageSize)
	if err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (h *AuditLogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/audit-logs", h.GetLogs)
}
