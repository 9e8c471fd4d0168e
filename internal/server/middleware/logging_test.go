package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// syncBuffer буфер, безопасный для записи из горутин сервера
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, body: "hello", wantLevel: "INFO"},
		{name: "client error", status: http.StatusNotFound, body: "missing", wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants?secret=1", nil)
			req.Header.Set("Authorization", "Bearer secret-token")
			w := httptest.NewRecorder()

			LoggingMiddleware(jsonLogger(&buf))(next).ServeHTTP(w, req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "HTTP request", entry["msg"])
			assert.Equal(t, http.MethodPost, entry["method"])
			assert.Equal(t, "/api/v1/restaurants", entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, float64(len(tt.body)), entry["bytes_written"])
			assert.NotContains(t, buf.String(), "secret-token")
			assert.NotContains(t, buf.String(), "secret=1")
		})
	}
}

func TestLoggingWithSkip(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := LoggingWithSkip(jsonLogger(&buf), []string{"/api/v1/health"})(next)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Empty(t, buf.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/restaurants", nil))
	assert.Contains(t, buf.String(), "/api/v1/restaurants")
}

func TestStatusRecorder_DefaultStatus(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	n, err := rec.Write([]byte("abc"))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusOK, rec.status)
	assert.Equal(t, int64(3), rec.written)
	assert.Equal(t, w, rec.Unwrap())
}

func TestStatusRecorder_HijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}

	_, _, err := rec.Hijack()
	assert.ErrorIs(t, err, errHijackUnsupported)
	assert.False(t, rec.upgraded)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated", incoming: ""},
		{name: "propagated", incoming: "req-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			LoggingMiddleware(jsonLogger(&buf))(next).ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			require.NotEmpty(t, got)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.Len(t, got, 26)
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, got, entry["request_id"])
		})
	}
}

// Websocket upgrade должен проходить через обертку логирования
func TestLoggingMiddleware_WebsocketUpgrade(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	upgrader := websocket.Upgrader{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	})

	server := httptest.NewServer(LoggingMiddleware(logger)(next))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	_ = conn.Close()

	assert.Eventually(t, func() bool {
		out := buf.String()
		return strings.Contains(out, `"websocket":true`) && strings.Contains(out, `"status":101`)
	}, time.Second, 10*time.Millisecond)
}
