package api

import "time"

// EventOnCreateRestaurant тип события подписки о создании ресторана
const EventOnCreateRestaurant = "onCreateRestaurant"

// Restaurant представляет ресторан в формате API
type Restaurant struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	ClientID    string    `json:"client_id"`
}

// CreateRestaurantRequest представляет запрос на создание ресторана
type CreateRestaurantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	City        string `json:"city"`
	ClientID    string `json:"client_id"` // идентификатор клиента-создателя, возвращается в событии подписки
}

// ListRestaurantsResponse представляет ответ со списком ресторанов
type ListRestaurantsResponse struct {
	Items []Restaurant `json:"items"` // рестораны в порядке создания
}

// SubscriptionEvent представляет одно push-событие подписки
type SubscriptionEvent struct {
	Type       string     `json:"type"`
	Restaurant Restaurant `json:"restaurant"`
}

// SessionRequest представляет запрос на открытие анонимной сессии клиента
type SessionRequest struct {
	ClientID string `json:"client_id"`
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
