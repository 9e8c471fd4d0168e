package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/restaurants/internal/client/api"
	"github.com/iudanet/restaurants/internal/client/app"
	"github.com/iudanet/restaurants/internal/config"
	"github.com/iudanet/restaurants/internal/models"
	pkgapi "github.com/iudanet/restaurants/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func testConfig(t *testing.T) config.ServerConfig {
	t.Helper()
	return config.ServerConfig{
		Addr:            "127.0.0.1:0",
		Storage:         "sqlite://" + filepath.Join(t.TempDir(), "restaurants.db"),
		Broker:          "memory",
		TokenTTL:        time.Hour,
		CreateRate:      100,
		CreateWindow:    time.Minute,
		ShutdownTimeout: time.Second,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv, err := New(context.Background(), testConfig(t), "test", setupTestLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	// Закрытие брокера завершает websocket обработчики раньше ts.Close
	t.Cleanup(func() {
		assert.NoError(t, srv.Close())
	})

	return ts
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RestaurantsRequireSession(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/restaurants")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_CreateListSubscribe(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	clientID := uuid.NewString()

	client := api.NewClient(ts.URL, 5*time.Second)
	_, err := client.OpenSession(ctx, clientID)
	require.NoError(t, err)

	sub, err := client.SubscribeOnCreate(ctx)
	require.NoError(t, err)
	defer sub.Close()

	created, err := client.CreateRestaurant(ctx, pkgapi.CreateRestaurantRequest{
		Name:        "Noma",
		Description: "New Nordic",
		City:        "Copenhagen",
		ClientID:    clientID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, clientID, created.ClientID)

	select {
	case event := <-sub.Events():
		assert.Equal(t, created.ID, event.ID)
		assert.Equal(t, "Noma", event.Name)
		assert.Equal(t, clientID, event.ClientID)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not receive created restaurant")
	}

	list, err := client.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestServer_CreateForForeignClientForbidden(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	client := api.NewClient(ts.URL, 5*time.Second)
	_, err := client.OpenSession(ctx, uuid.NewString())
	require.NoError(t, err)

	_, err = client.CreateRestaurant(ctx, pkgapi.CreateRestaurantRequest{
		Name:     "Noma",
		ClientID: uuid.NewString(),
	})
	assert.Error(t, err)

	list, err := client.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Два клиентских ядра против настоящего сервера: создатель не видит
// собственное эхо, второй клиент получает ресторан по подписке
func TestServer_TwoCores(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	author := app.NewCore(api.NewClient(ts.URL, 5*time.Second), setupTestLogger())
	reader := app.NewCore(api.NewClient(ts.URL, 5*time.Second), setupTestLogger())

	require.NoError(t, author.Start(ctx))
	require.NoError(t, reader.Start(ctx))
	require.NoError(t, author.FetchErr())
	require.NoError(t, reader.FetchErr())

	require.NoError(t, author.SetField(ctx, models.FieldName, "Septime"))
	require.NoError(t, author.SetField(ctx, models.FieldCity, "Paris"))
	_, err := author.Submit(ctx)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		restaurants := reader.Snapshot().Restaurants
		return len(restaurants) == 1 && restaurants[0].Name == "Septime"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, author.Retire())
	require.NoError(t, reader.Retire())

	restaurants := author.Snapshot().Restaurants
	require.Len(t, restaurants, 1, "own echo must not be appended")
	assert.Equal(t, "Septime", restaurants[0].Name)
}

func TestServer_Serve(t *testing.T) {
	srv, err := New(context.Background(), testConfig(t), "test", setupTestLogger())
	require.NoError(t, err)
	defer srv.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() {
		errC <- srv.Serve(ctx, listener)
	}()

	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/api/v1/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-errC:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		dsn     string
		wantErr bool
	}{
		{name: "sqlite", dsn: "sqlite://" + filepath.Join(dir, "r.db")},
		{name: "bolt", dsn: "bolt://" + filepath.Join(dir, "r.bolt")},
		{name: "sqlite without path", dsn: "sqlite://", wantErr: true},
		{name: "bolt without path", dsn: "bolt://", wantErr: true},
		{name: "unknown scheme", dsn: "mysql://localhost/db", wantErr: true},
		{name: "plain path", dsn: "restaurants.db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenStorage(context.Background(), tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, store.Close())
		})
	}
}

func TestOpenBroker(t *testing.T) {
	b, err := OpenBroker(context.Background(), "memory", setupTestLogger())
	require.NoError(t, err)
	assert.NoError(t, b.Close())

	_, err = OpenBroker(context.Background(), "kafka://localhost:9092", setupTestLogger())
	assert.Error(t, err)

	_, err = OpenBroker(context.Background(), "redis://%zz", setupTestLogger())
	assert.Error(t, err)
}
