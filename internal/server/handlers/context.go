package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// ClientIDKey ключ для хранения client_id в контексте
const ClientIDKey contextKey = "client_id"

// WithClientID возвращает контекст с идентификатором клиента сессии
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDKey, clientID)
}

// GetClientID извлекает client_id из контекста запроса
func GetClientID(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok
}
