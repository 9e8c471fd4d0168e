package state

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/restaurants/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewStore(ViewState{}, logger)
	t.Cleanup(s.Close)

	return s
}

func TestStore_Dispatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	next, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("A", "x")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names(next))

	next, err = s.Dispatch(ctx, SetField{Field: models.FieldCity, Value: "Kazan"})
	require.NoError(t, err)
	assert.Equal(t, "Kazan", next.Draft.City)
	assert.Equal(t, []string{"A"}, names(next))

	assert.Equal(t, next, s.Snapshot())
}

func TestStore_Snapshot_IsCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("A", "x")})
	require.NoError(t, err)

	snapshot := s.Snapshot()
	snapshot.Restaurants[0].Name = "mutated"

	assert.Equal(t, "A", s.Snapshot().Restaurants[0].Name)
}

func TestStore_Update_UsesStateAtApplyTime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("A", "y")})
	require.NoError(t, err)

	next, err := s.Update(ctx, func(current ViewState) Transition {
		return Replace{Restaurants: append(current.Restaurants, testRestaurant("B", "x"))}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(next))
}

func TestStore_Update_NilTransition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	called := 0
	unsubscribe := s.Subscribe(func(Transition, ViewState) { called++ })
	defer unsubscribe()

	_, err := s.Update(ctx, func(ViewState) Transition { return nil })
	require.NoError(t, err)

	// Синхронизируемся с мутатором следующим переходом
	_, err = s.Dispatch(ctx, Fail{})
	require.NoError(t, err)

	assert.Equal(t, 1, called)
}

func TestStore_Observers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var kinds []string
	var lengths []int
	unsubscribe := s.Subscribe(func(tr Transition, st ViewState) {
		kinds = append(kinds, tr.Kind())
		lengths = append(lengths, len(st.Restaurants))
	})

	_, err := s.Dispatch(ctx, Replace{Restaurants: []models.Restaurant{testRestaurant("A", "x")}})
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, Append{Restaurant: testRestaurant("B", "y")})
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, unknownTransition{})
	require.NoError(t, err)

	unsubscribe()
	unsubscribe() // повторная отписка безопасна

	_, err = s.Dispatch(ctx, Fail{})
	require.NoError(t, err)

	// Dispatch возвращается после уведомления наблюдателей, поэтому гонки нет
	assert.Equal(t, []string{"set", "add", "rename"}, kinds)
	assert.Equal(t, []int{1, 2, 2}, lengths)
}

func TestStore_Observers_CalledInRegistrationOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.Subscribe(func(Transition, ViewState) { order = append(order, i) })
	}

	_, err := s.Dispatch(ctx, Fail{})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestStore_Watch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("A", "x")})
	require.NoError(t, err)

	var observed []string
	snapshot, unsubscribe, err := s.Watch(ctx, func(tr Transition, _ ViewState) {
		if a, ok := tr.(Append); ok {
			observed = append(observed, a.Restaurant.Name)
		}
	})
	require.NoError(t, err)

	_, err = s.Dispatch(ctx, Append{Restaurant: testRestaurant("B", "y")})
	require.NoError(t, err)

	unsubscribe()
	_, err = s.Dispatch(ctx, Append{Restaurant: testRestaurant("C", "z")})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, names(snapshot))
	assert.Equal(t, []string{"B"}, observed)
}

func TestStore_Watch_NoGapWithConcurrentAppends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const appends = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < appends; i++ {
			_, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("r", "y")})
			assert.NoError(t, err)
		}
	}()

	var mu sync.Mutex
	observed := 0
	snapshot, unsubscribe, err := s.Watch(ctx, func(tr Transition, _ ViewState) {
		if _, ok := tr.(Append); ok {
			mu.Lock()
			observed++
			mu.Unlock()
		}
	})
	require.NoError(t, err)
	defer unsubscribe()

	wg.Wait()

	// Каждое добавление попало либо в снимок, либо к наблюдателю
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, appends, len(snapshot.Restaurants)+observed)
}

func TestStore_Watch_Closed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	s := NewStore(ViewState{}, logger)
	s.Close()

	_, unsubscribe, err := s.Watch(context.Background(), func(Transition, ViewState) {})
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.Nil(t, unsubscribe)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("r", "y")})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, s.Snapshot().Restaurants, producers*perProducer)
}

func TestStore_Close(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	s := NewStore(ViewState{}, logger)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("A", "x")})
	require.NoError(t, err)

	s.Close()
	s.Close() // идемпотентно

	_, err = s.Dispatch(ctx, Append{Restaurant: testRestaurant("B", "y")})
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = s.Update(ctx, func(ViewState) Transition { return Fail{} })
	assert.ErrorIs(t, err, ErrStoreClosed)

	// Состояние после закрытия остается доступным для чтения
	snapshot := s.Snapshot()
	assert.Equal(t, []string{"A"}, names(snapshot))
	assert.False(t, snapshot.Error)
}

func TestStore_Dispatch_ContextCanceled(t *testing.T) {
	s := newTestStore(t)

	// Занимаем мутатор наблюдателем, который ждет сигнала
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	s.Subscribe(func(Transition, ViewState) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
	})

	go func() {
		_, _ = s.Dispatch(context.Background(), Fail{})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Dispatch(ctx, Append{Restaurant: testRestaurant("A", "x")})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestNewStore_NilLogger(t *testing.T) {
	s := NewStore(ViewState{Draft: Draft{Name: "n"}}, nil)
	defer s.Close()

	next, err := s.Dispatch(context.Background(), SetField{Field: models.FieldCity, Value: "c"})
	require.NoError(t, err)
	assert.Equal(t, Draft{Name: "n", City: "c"}, next.Draft)
}
