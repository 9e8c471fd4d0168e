package state

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// ErrStoreClosed возвращается при попытке изменить состояние после Close
var ErrStoreClosed = errors.New("state store is closed")

// Observer вызывается после каждого примененного перехода.
// Вызов происходит в горутине-мутаторе: Observer не должен синхронно
// вызывать Dispatch или Update того же Store.
type Observer func(t Transition, s ViewState)

// request запрос к мутатору. Ровно одно из полей transition/derive заполнено.
type request struct {
	transition Transition
	derive     func(ViewState) Transition
	done       chan ViewState
}

// Store единственный владелец ViewState.
// Все переходы применяются одной горутиной в порядке поступления.
type Store struct {
	logger    *slog.Logger
	requests  chan request
	closeC    chan struct{}
	stoppedC  chan struct{}
	observers map[int]Observer
	current   ViewState
	nextID    int
	closeOnce sync.Once
	mu        sync.RWMutex // защищает current и observers для чтения извне
}

// NewStore создает Store с начальным состоянием и запускает горутину-мутатор
func NewStore(initial ViewState, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		logger:    logger,
		requests:  make(chan request),
		closeC:    make(chan struct{}),
		stoppedC:  make(chan struct{}),
		observers: make(map[int]Observer),
		current:   initial.Clone(),
	}

	go s.run()

	return s
}

// run цикл мутатора
func (s *Store) run() {
	defer close(s.stoppedC)

	for {
		select {
		case req := <-s.requests:
			t := req.transition
			if req.derive != nil {
				t = req.derive(s.Snapshot())
			}
			req.done <- s.apply(t)
		case <-s.closeC:
			return
		}
	}
}

// apply применяет переход и уведомляет наблюдателей
func (s *Store) apply(t Transition) ViewState {
	if t == nil {
		return s.Snapshot()
	}

	s.mu.Lock()
	s.current = Apply(s.current, t)
	next := s.current.Clone()
	observers := make([]Observer, 0, len(s.observers))
	for _, id := range slices.Sorted(maps.Keys(s.observers)) {
		observers = append(observers, s.observers[id])
	}
	s.mu.Unlock()

	s.logger.Debug("Transition applied",
		"kind", t.Kind(),
		"restaurants", len(next.Restaurants),
		"error", next.Error)

	for _, o := range observers {
		o(t, next.Clone())
	}

	return next
}

// Dispatch передает переход мутатору и ждет его применения.
// Возвращает состояние сразу после применения перехода.
func (s *Store) Dispatch(ctx context.Context, t Transition) (ViewState, error) {
	return s.submit(ctx, request{transition: t})
}

// Update вычисляет переход из состояния, актуального в момент применения,
// и применяет его атомарно относительно других переходов.
// derive выполняется в горутине-мутаторе и должна быть быстрой и чистой.
// Возврат nil из derive означает отсутствие перехода.
func (s *Store) Update(ctx context.Context, derive func(ViewState) Transition) (ViewState, error) {
	return s.submit(ctx, request{derive: derive})
}

func (s *Store) submit(ctx context.Context, req request) (ViewState, error) {
	req.done = make(chan ViewState, 1)

	select {
	case <-s.closeC:
		return ViewState{}, ErrStoreClosed
	default:
	}

	select {
	case s.requests <- req:
	case <-s.closeC:
		return ViewState{}, ErrStoreClosed
	case <-ctx.Done():
		return ViewState{}, ctx.Err()
	}

	// Запрос принят мутатором: дожидаемся результата
	return <-req.done, nil
}

// Snapshot возвращает копию текущего состояния только для чтения
func (s *Store) Snapshot() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Clone()
}

// Subscribe регистрирует наблюдателя.
// Возвращает функцию отписки; повторный вызов отписки безопасен.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Watch возвращает текущее состояние и регистрирует наблюдателя атомарно
// относительно переходов: наблюдатель получит каждый переход,
// не вошедший в возвращенный снимок.
func (s *Store) Watch(ctx context.Context, o Observer) (ViewState, func(), error) {
	var unsubscribe func()
	current, err := s.Update(ctx, func(ViewState) Transition {
		unsubscribe = s.Subscribe(o)
		return nil
	})
	if err != nil {
		return ViewState{}, nil, err
	}

	return current, unsubscribe, nil
}

// Close останавливает мутатор. После Close переходы не применяются,
// Dispatch и Update возвращают ErrStoreClosed.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.closeC)
	})
	<-s.stoppedC
}
