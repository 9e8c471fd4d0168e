package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/iudanet/restaurants/pkg/api"
)

// MaxFieldLen максимальная длина каждого поля ресторана в символах
const MaxFieldLen = 256

var (
	// ErrEmptyName имя ресторана не задано
	ErrEmptyName = errors.New("restaurant name cannot be empty")

	// ErrFieldTooLong поле длиннее MaxFieldLen
	ErrFieldTooLong = errors.New("field is too long")

	// ErrInvalidClientID client_id не является UUID
	ErrInvalidClientID = errors.New("client_id must be a valid UUID")
)

// ValidateCreateRestaurant проверяет запрос createRestaurant.
// Описание и город необязательны, имя обязательно.
func ValidateCreateRestaurant(req api.CreateRestaurantRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrEmptyName
	}

	fields := []struct {
		name  string
		value string
	}{
		{"name", req.Name},
		{"description", req.Description},
		{"city", req.City},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > MaxFieldLen {
			return fmt.Errorf("%s must not exceed %d characters: %w", f.name, MaxFieldLen, ErrFieldTooLong)
		}
	}

	return ValidateClientID(req.ClientID)
}

// ValidateClientID проверяет идентификатор клиента
func ValidateClientID(clientID string) error {
	if _, err := uuid.Parse(clientID); err != nil {
		return ErrInvalidClientID
	}
	return nil
}
