package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/internal/server/storage"
	"github.com/iudanet/restaurants/internal/validation"
	"github.com/iudanet/restaurants/pkg/api"
)

// Publisher рассылает созданные рестораны подпискам
type Publisher interface {
	Publish(ctx context.Context, restaurant models.Restaurant) error
}

// RestaurantHandler обрабатывает запросы списка и создания ресторанов
type RestaurantHandler struct {
	logger    *slog.Logger
	storage   storage.RestaurantStorage
	publisher Publisher
	now       func() time.Time
}

// NewRestaurantHandler создает новый handler ресторанов
func NewRestaurantHandler(logger *slog.Logger, storage storage.RestaurantStorage, publisher Publisher) *RestaurantHandler {
	return &RestaurantHandler{
		logger:    logger,
		storage:   storage,
		publisher: publisher,
		now:       time.Now,
	}
}

// List обрабатывает GET /api/v1/restaurants
// Возвращает все рестораны в порядке создания
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurants, err := h.storage.ListRestaurants(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list restaurants", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListRestaurantsResponse{
		Items: make([]api.Restaurant, 0, len(restaurants)),
	}
	for _, restaurant := range restaurants {
		resp.Items = append(resp.Items, api.FromModel(restaurant))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Create обрабатывает POST /api/v1/restaurants
// Сохраняет ресторан и только после этого публикует событие onCreateRestaurant
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateCreateRestaurant(req); err != nil {
		h.logger.WarnContext(ctx, "invalid restaurant", slog.Any("error", err))
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	// Клиент может создавать рестораны только от своего идентификатора
	if sessionClientID, ok := GetClientID(ctx); ok && sessionClientID != req.ClientID {
		h.logger.WarnContext(ctx, "client_id does not match session",
			slog.String("client_id", req.ClientID),
			slog.String("session_client_id", sessionClientID))
		SendError(h.logger, w, "client_id does not match session", http.StatusForbidden)
		return
	}

	restaurant := models.Restaurant{
		ID:          ulid.Make().String(),
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		ClientID:    req.ClientID,
		CreatedAt:   h.now().UTC(),
	}

	if err := h.storage.CreateRestaurant(ctx, &restaurant); err != nil {
		if errors.Is(err, storage.ErrRestaurantAlreadyExists) {
			SendError(h.logger, w, "restaurant already exists", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create restaurant", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Ресторан уже сохранен: ошибка рассылки не отменяет создание
	if err := h.publisher.Publish(context.WithoutCancel(ctx), restaurant); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish restaurant",
			slog.String("id", restaurant.ID),
			slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "restaurant created",
		slog.String("id", restaurant.ID),
		slog.String("client_id", restaurant.ClientID))

	sendJSON(h.logger, w, api.FromModel(restaurant), http.StatusCreated)
}
