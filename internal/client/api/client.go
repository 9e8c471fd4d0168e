package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/pkg/api"
)

// DefaultTimeout таймаут HTTP запросов по умолчанию
const DefaultTimeout = 30 * time.Second

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет удаленные интерфейсы, с которыми работает клиент:
// запрос списка, мутацию создания и подписку на создание
type ClientAPI interface {
	// OpenSession открывает анонимную сессию для клиента и запоминает токен доступа
	OpenSession(ctx context.Context, clientID string) (*api.TokenResponse, error)

	// ListRestaurants возвращает все рестораны в порядке создания
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)

	// CreateRestaurant запрашивает долговременное создание ресторана
	CreateRestaurant(ctx context.Context, req api.CreateRestaurantRequest) (*models.Restaurant, error)

	// SubscribeOnCreate открывает поток событий о создании ресторанов любым клиентом
	SubscribeOnCreate(ctx context.Context) (Subscription, error)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	mu         sync.RWMutex
}

// NewClient создает новый API клиент
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// OpenSession получает access token для идентификатора клиента
func (c *Client) OpenSession(ctx context.Context, clientID string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/session", api.SessionRequest{ClientID: clientID}, &resp)
	if err != nil {
		return nil, fmt.Errorf("session request failed: %w", err)
	}

	c.SetToken(resp.AccessToken)

	return &resp, nil
}

// ListRestaurants выполняет запрос listRestaurants
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var resp api.ListRestaurantsResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/restaurants", nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list restaurants request failed: %w", err)
	}

	restaurants := make([]models.Restaurant, 0, len(resp.Items))
	for _, item := range resp.Items {
		restaurants = append(restaurants, item.ToModel())
	}

	return restaurants, nil
}

// CreateRestaurant выполняет мутацию createRestaurant
func (c *Client) CreateRestaurant(ctx context.Context, req api.CreateRestaurantRequest) (*models.Restaurant, error) {
	var resp api.Restaurant
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/restaurants", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("create restaurant request failed: %w", err)
	}

	restaurant := resp.ToModel()
	return &restaurant, nil
}

// SetToken устанавливает access token для последующих запросов
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

// authHeader возвращает заголовки авторизации текущей сессии
func (c *Client) authHeader() http.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	return header
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range c.authHeader() {
		req.Header[key] = values
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			msg := errResp.Error
			if errResp.Message != "" {
				msg = errResp.Message
			}
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
