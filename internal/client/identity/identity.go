// Package identity генерирует идентификатор клиента, которым помечаются
// созданные локально рестораны.
package identity

import "github.com/google/uuid"

// ID идентификатор клиента. Создается один раз на время жизни процесса,
// никуда не сохраняется и сравнивается только с тегами входящих событий подписки.
type ID string

// New генерирует новый случайный идентификатор клиента (UUID v4)
func New() ID {
	return ID(uuid.New().String())
}

// String возвращает строковое представление идентификатора
func (id ID) String() string {
	return string(id)
}

// Owns проверяет, помечено ли событие идентификатором этого клиента
func (id ID) Owns(tag string) bool {
	return id != "" && string(id) == tag
}
