// Package app собирает клиентское ядро: идентификатор, хранилище состояния,
// создание ресторанов, загрузку списка и подписку.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"

	"github.com/iudanet/restaurants/internal/client/api"
	"github.com/iudanet/restaurants/internal/client/data"
	"github.com/iudanet/restaurants/internal/client/identity"
	"github.com/iudanet/restaurants/internal/client/state"
	"github.com/iudanet/restaurants/internal/client/sync"
	"github.com/iudanet/restaurants/internal/models"
)

var (
	// ErrAlreadyStarted возвращается при повторном вызове Start
	ErrAlreadyStarted = errors.New("core already started")

	// ErrRetired возвращается из Start после Retire
	ErrRetired = errors.New("core retired")
)

// Core клиентское ядро согласования состояния
type Core struct {
	apiClient  api.ClientAPI
	store      *state.Store
	creation   *data.Service
	fetcher    *sync.Fetcher
	subscriber *sync.Subscriber
	logger     *slog.Logger
	fetchedC   chan struct{}
	fetchErr   error
	subErrC    chan error
	clientID   identity.ID
	tasks      gosync.WaitGroup
	mu         gosync.Mutex
	started    bool
	retired    bool
}

// NewCore создает ядро. Идентификатор клиента генерируется здесь один раз
// и явно передается в создание ресторанов и подписку.
func NewCore(apiClient api.ClientAPI, logger *slog.Logger) *Core {
	return NewCoreWithID(apiClient, identity.New(), logger)
}

// NewCoreWithID создает ядро с заданным идентификатором клиента
func NewCoreWithID(apiClient api.ClientAPI, clientID identity.ID, logger *slog.Logger) *Core {
	store := state.NewStore(state.ViewState{}, logger)

	return &Core{
		apiClient:  apiClient,
		store:      store,
		creation:   data.NewService(store, apiClient, clientID, logger),
		fetcher:    sync.NewFetcher(store, apiClient, logger),
		subscriber: sync.NewSubscriber(store, apiClient, clientID, logger),
		logger:     logger.With("client_id", clientID.String()),
		fetchedC:   make(chan struct{}),
		subErrC:    make(chan error, 1),
		clientID:   clientID,
	}
}

// Start открывает сессию и подписку, затем запускает подписку и однократную
// загрузку списка как независимые фоновые задачи
func (c *Core) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.retired {
		return ErrRetired
	}
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true

	if _, err := c.apiClient.OpenSession(ctx, c.clientID.String()); err != nil {
		close(c.fetchedC)
		return fmt.Errorf("failed to open session: %w", err)
	}

	// Подписываемся до загрузки, чтобы не пропустить создания между ними
	if err := c.subscriber.Open(ctx); err != nil {
		close(c.fetchedC)
		return err
	}

	c.tasks.Add(2)
	go func() {
		defer c.tasks.Done()
		c.subErrC <- c.subscriber.Run(ctx)
	}()
	go func() {
		defer c.tasks.Done()
		defer close(c.fetchedC)
		c.fetchErr = c.fetcher.Load(ctx)
	}()

	c.logger.Info("Client core started")

	return nil
}

// Fetched закрывается после завершения начальной загрузки (успешной или нет)
func (c *Core) Fetched() <-chan struct{} {
	return c.fetchedC
}

// FetchErr возвращает ошибку начальной загрузки после закрытия Fetched
func (c *Core) FetchErr() error {
	<-c.fetchedC
	return c.fetchErr
}

// SubscriptionDone возвращает канал с результатом работы подписки
func (c *Core) SubscriptionDone() <-chan error {
	return c.subErrC
}

// ClientID возвращает идентификатор клиента
func (c *Core) ClientID() identity.ID {
	return c.clientID
}

// Snapshot возвращает текущее состояние только для чтения
func (c *Core) Snapshot() state.ViewState {
	return c.store.Snapshot()
}

// Subscribe регистрирует наблюдателя изменений состояния
func (c *Core) Subscribe(o state.Observer) func() {
	return c.store.Subscribe(o)
}

// Watch возвращает снимок состояния и регистрирует наблюдателя так,
// что ни один переход после снимка не будет пропущен
func (c *Core) Watch(ctx context.Context, o state.Observer) (state.ViewState, func(), error) {
	return c.store.Watch(ctx, o)
}

// SetField обновляет поле черновика
func (c *Core) SetField(ctx context.Context, field models.Field, value string) error {
	return c.creation.SetField(ctx, field, value)
}

// Submit создает ресторан из черновика
func (c *Core) Submit(ctx context.Context) (models.Restaurant, error) {
	return c.creation.Submit(ctx)
}

// Retire отписывается от потока и останавливает хранилище.
// После возврата переходы не применяются. Начатые запросы создания
// не отменяются: Retire дожидается их завершения.
func (c *Core) Retire() error {
	c.mu.Lock()
	if c.retired {
		c.mu.Unlock()
		return nil
	}
	c.retired = true
	if !c.started {
		close(c.fetchedC)
	}
	c.mu.Unlock()

	err := c.subscriber.Stop()
	c.store.Close()
	c.tasks.Wait()
	c.creation.Wait()

	c.logger.Info("Client core retired")

	return err
}
