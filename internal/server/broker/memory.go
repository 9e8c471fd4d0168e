package broker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/iudanet/restaurants/internal/models"
)

var _ Broker = (*Memory)(nil)

// Memory брокер внутри одного процесса сервера
type Memory struct {
	logger *slog.Logger
	subs   map[int64]*memorySubscription
	nextID int64
	mu     sync.Mutex
	closed bool
}

func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		logger: logger,
		subs:   make(map[int64]*memorySubscription),
	}
}

// Publish не блокируется: подписка, не успевающая читать, закрывается
func (m *Memory) Publish(ctx context.Context, restaurant models.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrBrokerClosed
	}

	for id, sub := range m.subs {
		select {
		case sub.events <- restaurant:
		default:
			m.logger.Warn("Dropping slow subscriber", "subscription_id", id)
			m.remove(id)
		}
	}

	return nil
}

func (m *Memory) Subscribe(ctx context.Context) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrBrokerClosed
	}

	m.nextID++
	sub := &memorySubscription{
		id:     m.nextID,
		broker: m,
		events: make(chan models.Restaurant, subscriptionBuffer),
	}
	m.subs[sub.id] = sub

	return sub, nil
}

// Subscribers возвращает число открытых подписок
func (m *Memory) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.subs)
}

// Close закрывает все подписки
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	for id := range m.subs {
		m.remove(id)
	}

	return nil
}

// remove вызывается под m.mu
func (m *Memory) remove(id int64) {
	if sub, ok := m.subs[id]; ok {
		delete(m.subs, id)
		close(sub.events)
	}
}

type memorySubscription struct {
	broker *Memory
	events chan models.Restaurant
	id     int64
}

func (s *memorySubscription) Events() <-chan models.Restaurant {
	return s.events
}

func (s *memorySubscription) Close() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	s.broker.remove(s.id)
	return nil
}
