package data

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/restaurants/internal/client/identity"
	"github.com/iudanet/restaurants/internal/client/state"
	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/pkg/api"
)

// mockCreator - простой hand-written mock для Creator интерфейса
type mockCreator struct {
	err      error
	release  chan struct{} // если не nil, CreateRestaurant ждет закрытия канала
	requests []api.CreateRestaurantRequest
	mu       sync.Mutex
}

func (m *mockCreator) CreateRestaurant(ctx context.Context, req api.CreateRestaurantRequest) (*models.Restaurant, error) {
	if m.release != nil {
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Restaurant{
		ID:          "01HX",
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		ClientID:    req.ClientID,
	}, nil
}

func (m *mockCreator) calls() []api.CreateRestaurantRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]api.CreateRestaurantRequest(nil), m.requests...)
}

func newTestService(t *testing.T, creator Creator) (*Service, *state.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := state.NewStore(state.ViewState{}, logger)
	t.Cleanup(store.Close)

	return NewService(store, creator, identity.ID("X"), logger), store
}

func fillDraft(t *testing.T, s *Service, name, description, city string) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, s.SetField(ctx, models.FieldName, name))
	require.NoError(t, s.SetField(ctx, models.FieldDescription, description))
	require.NoError(t, s.SetField(ctx, models.FieldCity, city))
}

func TestService_SetField(t *testing.T) {
	s, store := newTestService(t, &mockCreator{})

	fillDraft(t, s, "A", "d", "c")

	snapshot := store.Snapshot()
	assert.Equal(t, state.Draft{Name: "A", Description: "d", City: "c"}, snapshot.Draft)
	assert.Empty(t, snapshot.Restaurants)
}

func TestService_Submit(t *testing.T) {
	creator := &mockCreator{}
	s, store := newTestService(t, creator)
	ctx := context.Background()

	fillDraft(t, s, "A", "d", "c")

	candidate, err := s.Submit(ctx)
	require.NoError(t, err)

	expected := models.Restaurant{Name: "A", Description: "d", City: "c", ClientID: "X"}
	assert.Equal(t, expected, candidate)

	s.Wait()

	calls := creator.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, api.CreateRestaurantRequest{Name: "A", Description: "d", City: "c", ClientID: "X"}, calls[0])

	// Успех не порождает дополнительных переходов
	assert.Equal(t, []models.Restaurant{expected}, store.Snapshot().Restaurants)
}

func TestService_Submit_OptimisticBeforeResponse(t *testing.T) {
	creator := &mockCreator{release: make(chan struct{})}
	s, store := newTestService(t, creator)
	ctx := context.Background()

	fillDraft(t, s, "A", "d", "c")

	_, err := s.Submit(ctx)
	require.NoError(t, err)

	// Сервер еще не ответил, а запись уже видна
	snapshot := store.Snapshot()
	require.Len(t, snapshot.Restaurants, 1)
	assert.Equal(t, "A", snapshot.Restaurants[0].Name)
	assert.Empty(t, creator.calls())

	close(creator.release)
	s.Wait()
	assert.Len(t, creator.calls(), 1)
}

func TestService_Submit_CreateFailureKeepsOptimisticEntry(t *testing.T) {
	creator := &mockCreator{err: errors.New("network down")}
	s, store := newTestService(t, creator)
	ctx := context.Background()

	fillDraft(t, s, "A", "d", "c")

	_, err := s.Submit(ctx)
	require.NoError(t, err)
	s.Wait()

	snapshot := store.Snapshot()
	assert.Len(t, snapshot.Restaurants, 1, "оптимистичная запись не откатывается")
	assert.False(t, snapshot.Error, "ошибка создания не выставляет флаг ошибки")
}

func TestService_Submit_DoesNotClearDraft(t *testing.T) {
	s, store := newTestService(t, &mockCreator{})
	ctx := context.Background()

	fillDraft(t, s, "A", "d", "c")

	_, err := s.Submit(ctx)
	require.NoError(t, err)
	_, err = s.Submit(ctx)
	require.NoError(t, err)
	s.Wait()

	snapshot := store.Snapshot()
	assert.Equal(t, state.Draft{Name: "A", Description: "d", City: "c"}, snapshot.Draft)
	require.Len(t, snapshot.Restaurants, 2, "повторная отправка создает вторую запись")
	assert.Equal(t, snapshot.Restaurants[0], snapshot.Restaurants[1])
}

func TestService_Submit_AppendsAfterExisting(t *testing.T) {
	s, store := newTestService(t, &mockCreator{})
	ctx := context.Background()

	_, err := store.Dispatch(ctx, state.Append{Restaurant: models.Restaurant{Name: "foreign", ClientID: "Y"}})
	require.NoError(t, err)

	fillDraft(t, s, "A", "d", "c")

	_, err = s.Submit(ctx)
	require.NoError(t, err)
	s.Wait()

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Restaurants, 2)
	assert.Equal(t, "foreign", snapshot.Restaurants[0].Name)
	assert.Equal(t, "A", snapshot.Restaurants[1].Name)
}

func TestService_Submit_RequestSurvivesCanceledContext(t *testing.T) {
	creator := &mockCreator{release: make(chan struct{})}
	s, _ := newTestService(t, creator)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := s.Submit(ctx)
	require.NoError(t, err)

	cancel()
	close(creator.release)
	s.Wait()

	assert.Len(t, creator.calls(), 1)
}

func TestService_StoreClosed(t *testing.T) {
	creator := &mockCreator{}
	s, store := newTestService(t, creator)
	store.Close()

	err := s.SetField(context.Background(), models.FieldName, "A")
	assert.ErrorIs(t, err, state.ErrStoreClosed)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, state.ErrStoreClosed)

	s.Wait()
	assert.Empty(t, creator.calls(), "без оптимистичного применения запрос не отправляется")
}

func TestService_SubmitRacesWithShutdown(t *testing.T) {
	const submitters = 16

	creator := &mockCreator{}
	s, store := newTestService(t, creator)
	fillDraft(t, s, "A", "B", "C")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	start := make(chan struct{})
	for range submitters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := s.Submit(context.Background()); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, state.ErrStoreClosed)
			}
		}()
	}

	close(start)
	store.Close()
	s.Wait()

	// После Wait каждый принятый Submit уже отправил запрос
	calls := len(creator.calls())
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, accepted, calls)
}
