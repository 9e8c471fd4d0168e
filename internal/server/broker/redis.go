package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/restaurants/internal/models"
)

// DefaultChannel канал Redis для созданных ресторанов
const DefaultChannel = "restaurants:created"

var _ Broker = (*Redis)(nil)

// Redis брокер поверх Redis pub/sub: рассылает создания между репликами сервера
type Redis struct {
	client  *redis.Client
	logger  *slog.Logger
	channel string
}

// NewRedis подключается к Redis по URL вида redis://host:port/db
func NewRedis(ctx context.Context, url string, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	return &Redis{
		client:  client,
		logger:  logger,
		channel: DefaultChannel,
	}, nil
}

func (r *Redis) Publish(ctx context.Context, restaurant models.Restaurant) error {
	payload, err := json.Marshal(restaurant)
	if err != nil {
		return fmt.Errorf("failed to marshal restaurant: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	return nil
}

// Subscribe возвращается после подтверждения подписки сервером Redis
func (r *Redis) Subscribe(ctx context.Context) (Subscription, error) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to redis: %w", err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		logger: r.logger,
		events: make(chan models.Restaurant, subscriptionBuffer),
		closeC: make(chan struct{}),
		doneC:  make(chan struct{}),
	}
	go sub.relay()

	return sub, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type redisSubscription struct {
	pubsub    *redis.PubSub
	logger    *slog.Logger
	events    chan models.Restaurant
	closeC    chan struct{}
	doneC     chan struct{}
	closeOnce sync.Once
}

// relay перекладывает сообщения Redis в канал событий
func (s *redisSubscription) relay() {
	defer close(s.doneC)
	defer close(s.events)

	messages := s.pubsub.Channel()
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var restaurant models.Restaurant
			if err := json.Unmarshal([]byte(msg.Payload), &restaurant); err != nil {
				s.logger.Error("Invalid message from redis", "error", err)
				continue
			}
			select {
			case s.events <- restaurant:
			case <-s.closeC:
				return
			}
		case <-s.closeC:
			return
		}
	}
}

func (s *redisSubscription) Events() <-chan models.Restaurant {
	return s.events
}

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeC)
		err = s.pubsub.Close()
		<-s.doneC
	})
	return err
}
