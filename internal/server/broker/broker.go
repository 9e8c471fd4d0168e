// Package broker рассылает созданные рестораны всем открытым подпискам.
package broker

import (
	"context"
	"errors"

	"github.com/iudanet/restaurants/internal/models"
)

// subscriptionBuffer размер буфера событий одной подписки
const subscriptionBuffer = 32

var (
	// ErrBrokerClosed возвращается после Close
	ErrBrokerClosed = errors.New("broker is closed")
)

// Broker доставляет каждое опубликованное создание каждой подписке
type Broker interface {
	// Publish рассылает ресторан всем подпискам
	Publish(ctx context.Context, restaurant models.Restaurant) error

	// Subscribe открывает подписку. События, опубликованные после возврата,
	// будут доставлены.
	Subscribe(ctx context.Context) (Subscription, error)

	Close() error
}

// Subscription поток созданных ресторанов
type Subscription interface {
	// Events закрывается при Close, закрытии брокера или переполнении буфера
	Events() <-chan models.Restaurant
	Close() error
}
