package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/pkg/api"
)

// ErrSubscriptionClosed возвращается при повторном закрытии подписки
var ErrSubscriptionClosed = errors.New("subscription is closed")

const closeWriteTimeout = time.Second

// Subscription поток событий onCreateRestaurant.
// Каждое событие доставляется один раз; переподключения нет.
type Subscription interface {
	// Events возвращает канал событий. Канал закрывается при завершении потока.
	Events() <-chan models.Restaurant

	// Err возвращает причину завершения потока после закрытия канала Events.
	// nil означает, что поток закрыт через Close.
	Err() error

	// Close отписывается от потока. После возврата новые события не доставляются.
	Close() error
}

// wsSubscription подписка поверх websocket соединения
type wsSubscription struct {
	conn    *websocket.Conn
	events  chan models.Restaurant
	closeC  chan struct{}
	doneC   chan struct{}
	err     error
	closeMu sync.Mutex
	closed  bool
}

// SubscribeOnCreate открывает websocket подписку на создание ресторанов
func (c *Client) SubscribeOnCreate(ctx context.Context) (Subscription, error) {
	wsURL, err := websocketURL(c.baseURL, "/api/v1/restaurants/subscribe")
	if err != nil {
		return nil, fmt.Errorf("failed to build subscription url: %w", err)
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = c.httpClient.Timeout

	conn, resp, err := dialer.DialContext(ctx, wsURL, c.authHeader())
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("subscription handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("subscription dial failed: %w", err)
	}

	sub := &wsSubscription{
		conn:   conn,
		events: make(chan models.Restaurant),
		closeC: make(chan struct{}),
		doneC:  make(chan struct{}),
	}

	go sub.readLoop()

	return sub, nil
}

// readLoop читает события до ошибки соединения или Close
func (s *wsSubscription) readLoop() {
	defer close(s.doneC)
	defer close(s.events)

	for {
		var event api.SubscriptionEvent
		if err := s.conn.ReadJSON(&event); err != nil {
			select {
			case <-s.closeC:
				// Закрыто нами - это не ошибка потока
			default:
				s.err = fmt.Errorf("subscription stream failed: %w", err)
			}
			return
		}

		if event.Type != api.EventOnCreateRestaurant {
			continue
		}

		select {
		case s.events <- event.Restaurant.ToModel():
		case <-s.closeC:
			return
		}
	}
}

func (s *wsSubscription) Events() <-chan models.Restaurant {
	return s.events
}

func (s *wsSubscription) Err() error {
	<-s.doneC
	return s.err
}

func (s *wsSubscription) Close() error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return ErrSubscriptionClosed
	}
	s.closed = true
	close(s.closeC)
	s.closeMu.Unlock()

	// Пытаемся корректно завершить websocket, ошибку записи игнорируем
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "unsubscribe"),
		time.Now().Add(closeWriteTimeout))

	err := s.conn.Close()
	<-s.doneC

	if err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}
	return nil
}

// websocketURL преобразует http(s) base URL в ws(s) URL
func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL + path)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	return u.String(), nil
}
