package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/restaurants/internal/client/state"
	"github.com/iudanet/restaurants/internal/models"
)

// Lister запрос полного списка ресторанов
type Lister interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

// Fetcher однократно загружает текущую коллекцию при старте
type Fetcher struct {
	store  *state.Store
	lister Lister
	logger *slog.Logger
}

// NewFetcher создает Fetcher
func NewFetcher(store *state.Store, lister Lister, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		store:  store,
		lister: lister,
		logger: logger,
	}
}

// Load запрашивает коллекцию и применяет Replace с результатом.
// Фильтрация по clientId не выполняется: список содержит только уже сохраненные записи.
// При ошибке запроса применяется Fail, ошибка возвращается вызывающему. Повторов нет.
func (f *Fetcher) Load(ctx context.Context) error {
	restaurants, err := f.lister.ListRestaurants(ctx)
	if err != nil {
		f.logger.Error("Failed to fetch restaurants", "error", err)
		if _, dispatchErr := f.store.Dispatch(ctx, state.Fail{}); dispatchErr != nil {
			f.logger.Warn("Failed to apply fetch failure", "error", dispatchErr)
		}
		return fmt.Errorf("failed to fetch restaurants: %w", err)
	}

	f.logger.Info("Restaurants fetched", "count", len(restaurants))

	if _, err := f.store.Dispatch(ctx, state.Replace{Restaurants: restaurants}); err != nil {
		return fmt.Errorf("failed to apply fetched restaurants: %w", err)
	}

	return nil
}
