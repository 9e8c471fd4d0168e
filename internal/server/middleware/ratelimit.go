package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/restaurants/internal/server/handlers"
)

// RateLimiter ограничивает число запросов на ключ в фиксированном окне
type RateLimiter struct {
	windows  map[string]*window
	logger   *slog.Logger
	now      func() time.Time
	stopC    chan struct{}
	limit    int
	period   time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
}

// window счетчик запросов одного ключа
type window struct {
	start time.Time
	used  int
}

// NewRateLimiter создает лимитер: не больше limit запросов за period на ключ.
// Неактивные ключи периодически удаляются до вызова Stop.
func NewRateLimiter(limit int, period time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		logger:  logger,
		now:     time.Now,
		stopC:   make(chan struct{}),
		limit:   limit,
		period:  period,
	}

	go rl.evictLoop()

	return rl
}

// Allow учитывает запрос ключа. Если лимит исчерпан, возвращает false
// и время до начала следующего окна.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}

	if w.used >= rl.limit {
		return false, w.start.Add(rl.period).Sub(now)
	}

	w.used++
	return true, 0
}

// Stop останавливает удаление неактивных ключей
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopC)
	})
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopC:
			return
		}
	}
}

// evictIdle удаляет ключи, окно которых закончилось больше периода назад
func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if now.Sub(w.start) > rl.period*2 {
			delete(rl.windows, key)
		}
	}
}

// RateLimitMiddleware отвечает 429 с Retry-After, когда лимит ключа исчерпан.
// Ключ - идентификатор клиента сессии, без сессии - IP адрес.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)

			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				logger.Warn("Rate limit exceeded",
					"key", key,
					"method", r.Method,
					"path", r.URL.Path,
					"retry_after", retryAfter,
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				handlers.SendError(logger, w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if clientID, ok := handlers.GetClientID(r.Context()); ok && clientID != "" {
		return "client:" + clientID
	}
	return "ip:" + clientIP(r)
}

// clientIP берет первый адрес X-Forwarded-For, затем X-Real-IP, затем RemoteAddr без порта
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
