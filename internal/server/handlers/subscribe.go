package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/restaurants/internal/server/broker"
	"github.com/iudanet/restaurants/pkg/api"
)

const (
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
)

// Subscriber открывает подписку на созданные рестораны
type Subscriber interface {
	Subscribe(ctx context.Context) (broker.Subscription, error)
}

// SubscribeHandler отдает события onCreateRestaurant по websocket
type SubscribeHandler struct {
	logger     *slog.Logger
	subscriber Subscriber
	upgrader   websocket.Upgrader
}

// NewSubscribeHandler создает новый handler подписки
func NewSubscribeHandler(logger *slog.Logger, subscriber Subscriber) *SubscribeHandler {
	return &SubscribeHandler{
		logger:     logger,
		subscriber: subscriber,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: writeTimeout,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe обрабатывает GET /api/v1/restaurants/subscribe.
// Каждое создание после открытия подписки доставляется ровно один раз,
// включая созданные самим клиентом.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID, _ := GetClientID(ctx)

	// Подписываемся до upgrade, чтобы ошибку можно было вернуть обычным HTTP ответом
	sub, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to subscribe", slog.Any("error", err))
		SendError(h.logger, w, "subscription unavailable", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		_ = sub.Close()
	}()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже отправил ответ с ошибкой
		h.logger.WarnContext(ctx, "websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	h.logger.InfoContext(ctx, "subscriber connected", slog.String("client_id", clientID))

	disconnectedC := make(chan struct{})
	go h.readUntilClosed(conn, disconnectedC)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case restaurant, ok := <-sub.Events():
			if !ok {
				// Подписка закрыта брокером: завершаем поток явно
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "subscription ended"),
					time.Now().Add(writeTimeout))
				h.logger.WarnContext(ctx, "subscription ended by broker", slog.String("client_id", clientID))
				return
			}

			event := api.SubscriptionEvent{
				Type:       api.EventOnCreateRestaurant,
				Restaurant: api.FromModel(restaurant),
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.WarnContext(ctx, "failed to write event", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-disconnectedC:
			h.logger.InfoContext(ctx, "subscriber disconnected", slog.String("client_id", clientID))
			return
		}
	}
}

// readUntilClosed читает входящие кадры, чтобы обработать pong и close от клиента
func (h *SubscribeHandler) readUntilClosed(conn *websocket.Conn, disconnectedC chan<- struct{}) {
	defer close(disconnectedC)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
