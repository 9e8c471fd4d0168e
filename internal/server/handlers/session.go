package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/restaurants/internal/validation"
	"github.com/iudanet/restaurants/pkg/api"
)

// SessionHandler выдает анонимные токены сессии, привязанные к идентификатору клиента
type SessionHandler struct {
	logger    *slog.Logger
	jwtConfig JWTConfig
}

// NewSessionHandler создает новый handler сессий
func NewSessionHandler(logger *slog.Logger, jwtConfig JWTConfig) *SessionHandler {
	return &SessionHandler{
		logger:    logger,
		jwtConfig: jwtConfig,
	}
}

// OpenSession обрабатывает POST /api/v1/session
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode session request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateClientID(req.ClientID); err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	token, expiresIn, err := GenerateAccessToken(h.jwtConfig, req.ClientID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "session opened", slog.String("client_id", req.ClientID))

	sendJSON(h.logger, w, api.TokenResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, http.StatusOK)
}
