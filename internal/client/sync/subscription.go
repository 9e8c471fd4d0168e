// Package sync связывает удаленные запрос и подписку с локальным state.Store.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"

	"github.com/iudanet/restaurants/internal/client/api"
	"github.com/iudanet/restaurants/internal/client/identity"
	"github.com/iudanet/restaurants/internal/client/state"
	"github.com/iudanet/restaurants/internal/models"
)

// ErrNotSubscribed возвращается из Run до успешного Open
var ErrNotSubscribed = errors.New("subscription is not open")

// SubscriptionOpener подписка onCreateRestaurant
type SubscriptionOpener interface {
	SubscribeOnCreate(ctx context.Context) (api.Subscription, error)
}

// SubscriberStats счетчики обработанных событий
type SubscriberStats struct {
	Appended int // события других клиентов, добавленные в коллекцию
	Echoes   int // собственные события, отброшенные как эхо оптимистичной записи
}

// Subscriber получает события о создании ресторанов и добавляет в коллекцию
// только рестораны, созданные другими клиентами
type Subscriber struct {
	sub      api.Subscription
	store    *state.Store
	opener   SubscriptionOpener
	logger   *slog.Logger
	stopC    chan struct{}
	doneC    chan struct{}
	clientID identity.ID
	stats    SubscriberStats
	mu       gosync.Mutex
	running  bool
	stopped  bool
}

// NewSubscriber создает Subscriber.
// clientID должен оставаться неизменным все время жизни подписки.
func NewSubscriber(store *state.Store, opener SubscriptionOpener, clientID identity.ID, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		store:    store,
		opener:   opener,
		clientID: clientID,
		logger:   logger,
		stopC:    make(chan struct{}),
		doneC:    make(chan struct{}),
	}
}

// TransitionFor возвращает переход для события подписки.
// Возвращает nil для эха собственного создания.
func TransitionFor(clientID identity.ID, r models.Restaurant) state.Transition {
	if clientID.Owns(r.ClientID) {
		return nil
	}
	return state.Append{Restaurant: r}
}

// Open открывает поток событий
func (s *Subscriber) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrNotSubscribed
	}
	if s.sub != nil {
		return nil
	}

	sub, err := s.opener.SubscribeOnCreate(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	s.sub = sub

	s.logger.Info("Subscribed to restaurant creations", "client_id", s.clientID.String())

	return nil
}

// Run обрабатывает события до завершения потока, отмены ctx или Stop.
// Ошибка потока возвращается как есть: переподключения нет.
func (s *Subscriber) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.sub == nil || s.running {
		s.mu.Unlock()
		return ErrNotSubscribed
	}
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	sub := s.sub
	s.mu.Unlock()

	defer close(s.doneC)

	for {
		select {
		case restaurant, ok := <-sub.Events():
			if !ok {
				if err := sub.Err(); err != nil {
					s.logger.Error("Subscription stream terminated", "error", err)
					return err
				}
				return nil
			}
			if err := s.handle(ctx, restaurant); err != nil {
				return err
			}
		case <-s.stopC:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle применяет одно событие
func (s *Subscriber) handle(ctx context.Context, restaurant models.Restaurant) error {
	transition := TransitionFor(s.clientID, restaurant)
	if transition == nil {
		s.logger.Debug("Skipping own restaurant echo", "id", restaurant.ID, "name", restaurant.Name)
		s.mu.Lock()
		s.stats.Echoes++
		s.mu.Unlock()
		return nil
	}

	if _, err := s.store.Dispatch(ctx, transition); err != nil {
		if errors.Is(err, state.ErrStoreClosed) {
			return nil
		}
		return fmt.Errorf("failed to append restaurant: %w", err)
	}

	s.mu.Lock()
	s.stats.Appended++
	s.mu.Unlock()

	return nil
}

// Stats возвращает счетчики обработанных событий
func (s *Subscriber) Stats() SubscriberStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// Stop отписывается от потока. После возврата Stop переходы не применяются.
func (s *Subscriber) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.stopC)
	running := s.running
	sub := s.sub
	s.mu.Unlock()

	var err error
	if sub != nil {
		if closeErr := sub.Close(); closeErr != nil && !errors.Is(closeErr, api.ErrSubscriptionClosed) {
			err = fmt.Errorf("failed to unsubscribe: %w", closeErr)
		}
	}

	if running {
		<-s.doneC
	}

	s.logger.Info("Unsubscribed from restaurant creations")

	return err
}
