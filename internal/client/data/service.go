// Package data реализует создание ресторанов с оптимистичным применением.
package data

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/restaurants/internal/client/identity"
	"github.com/iudanet/restaurants/internal/client/state"
	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/pkg/api"
)

// Creator мутация долговременного создания ресторана
type Creator interface {
	CreateRestaurant(ctx context.Context, req api.CreateRestaurantRequest) (*models.Restaurant, error)
}

// Service создает рестораны из черновика формы
type Service struct {
	store    *state.Store
	creator  Creator
	logger   *slog.Logger
	clientID identity.ID
	pending  sync.WaitGroup
}

// NewService создает сервис создания ресторанов.
// clientID передается явно: Service не генерирует идентификатор сам.
func NewService(store *state.Store, creator Creator, clientID identity.ID, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		creator:  creator,
		clientID: clientID,
		logger:   logger,
	}
}

// SetField обновляет одно поле черновика формы
func (s *Service) SetField(ctx context.Context, field models.Field, value string) error {
	if _, err := s.store.Dispatch(ctx, state.SetField{Field: field, Value: value}); err != nil {
		return fmt.Errorf("failed to set field %s: %w", field, err)
	}
	return nil
}

// Submit создает ресторан из текущего черновика:
//  1. собирает кандидата с clientId этого клиента
//  2. синхронно применяет Replace(коллекция + кандидат)
//  3. асинхронно запрашивает создание на сервере
//
// Возвращается сразу после шага 2. Ошибка создания на сервере только
// логируется: оптимистичная запись остается в коллекции. Черновик не очищается.
func (s *Service) Submit(ctx context.Context) (models.Restaurant, error) {
	var candidate models.Restaurant

	_, err := s.store.Update(ctx, func(current state.ViewState) state.Transition {
		candidate = models.Restaurant{
			Name:        current.Draft.Name,
			Description: current.Draft.Description,
			City:        current.Draft.City,
			ClientID:    s.clientID.String(),
		}

		restaurants := make([]models.Restaurant, 0, len(current.Restaurants)+1)
		restaurants = append(restaurants, current.Restaurants...)
		restaurants = append(restaurants, candidate)

		// Учитываем запрос в мутаторе: после Close хранилища derive не
		// выполняется, поэтому Add не может случиться после начала Wait
		s.pending.Add(1)

		return state.Replace{Restaurants: restaurants}
	})
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("failed to apply restaurant: %w", err)
	}

	// Запрос не отменяется вместе с вызывающим контекстом
	go s.create(context.WithoutCancel(ctx), candidate)

	return candidate, nil
}

// create выполняет мутацию createRestaurant. Компенсирующих переходов нет.
func (s *Service) create(ctx context.Context, candidate models.Restaurant) {
	defer s.pending.Done()

	req := api.CreateRestaurantRequest{
		Name:        candidate.Name,
		Description: candidate.Description,
		City:        candidate.City,
		ClientID:    candidate.ClientID,
	}

	created, err := s.creator.CreateRestaurant(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create restaurant",
			"name", candidate.Name,
			"client_id", candidate.ClientID,
			"error", err)
		return
	}

	var id string
	if created != nil {
		id = created.ID
	}
	s.logger.Info("Restaurant created", "id", id, "name", candidate.Name)
}

// Wait блокируется до завершения всех начатых запросов создания.
// Вызывается после Close хранилища: тогда новых запросов уже не будет.
func (s *Service) Wait() {
	s.pending.Wait()
}
