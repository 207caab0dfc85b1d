package system

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/everkind/backend/internal/config"
	"github.com/everkind/backend/internal/logger"
	"github.com/everkind/backend/internal/model/chat"
	"github.com/everkind/backend/pkg/utils"
)

// Readiness reports whether the completion provider is usable.
type Readiness interface {
	Configured() bool
}

// Handler serves health checks and service metadata.
type Handler struct {
	ready  Readiness
	logger zerolog.Logger
}

func New(ready Readiness, log zerolog.Logger) *Handler {
	return &Handler{ready: ready, logger: logger.Component(log, "system_handler")}
}

// RegisterAPIRoutes mounts the versioned health and info routes.
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/", h.handleAPIInfo)
}

// RegisterAppRoutes mounts the unversioned root routes.
func (h *Handler) RegisterAppRoutes(r chi.Router) {
	r.Get("/", h.handleAppRoot)
	r.Get("/health", h.handleRootHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := chat.StatusHealthy
	if !h.ready.Configured() {
		h.logger.Warn().Msg("health check: provider credential not configured")
		status = chat.StatusUnhealthy
	}
	utils.RespondJSON(w, http.StatusOK, chat.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   config.APIVersion,
	})
}

func (h *Handler) handleAPIInfo(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"name":        config.APITitle,
		"description": config.APIDescription,
		"version":     config.APIVersion,
		"status":      "running",
		"docs":        "/docs",
		"health":      "/health",
	})
}

func (h *Handler) handleAppRoot(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"name":        config.APITitle,
		"description": config.APIDescription,
		"version":     config.APIVersion,
		"status":      "running",
		"endpoints": map[string]string{
			"chat":        "/api/v1/chat",
			"health":      "/api/v1/health",
			"docs":        "/docs",
			"root_health": "/health",
		},
		"message": "Welcome to EverKind Therapeutic API! Visit /docs for interactive documentation.",
	})
}

// handleRootHealth is for load balancers and never reports unhealthy.
func (h *Handler) handleRootHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  chat.StatusHealthy,
		"service": config.ServiceName,
	})
}
