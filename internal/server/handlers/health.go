package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthTimeout ограничивает проверку хранилища
const healthTimeout = 2 * time.Second

// Pinger проверяет доступность зависимости
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler отвечает на GET /api/v1/health
type HealthHandler struct {
	logger  *slog.Logger
	storage Pinger
	version string
}

// NewHealthHandler создает handler, проверяющий хранилище
func NewHealthHandler(logger *slog.Logger, version string, storage Pinger) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		storage: storage,
		version: version,
	}
}

// HealthResponse ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Health отвечает 200 "ok" или 503 "unavailable", если хранилище не отвечает
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "storage health check failed", slog.Any("error", err))
		sendJSON(h.logger, w, HealthResponse{Status: "unavailable", Version: h.version}, http.StatusServiceUnavailable)
		return
	}

	sendJSON(h.logger, w, HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}
