package state

import "github.com/iudanet/restaurants/internal/models"

// Transition запрос на изменение ViewState.
// Набор известных переходов закрыт: Replace, Append, Fail, SetField.
// Неизвестные переходы применяются как no-op.
type Transition interface {
	Kind() string
}

// Replace полностью заменяет коллекцию ресторанов
type Replace struct {
	Restaurants []models.Restaurant
}

// Append добавляет один ресторан в конец коллекции
type Append struct {
	Restaurant models.Restaurant
}

// Fail выставляет флаг ошибки, коллекция не меняется
type Fail struct{}

// SetField перезаписывает одно поле черновика формы
type SetField struct {
	Field models.Field
	Value string
}

func (Replace) Kind() string  { return "set" }
func (Append) Kind() string   { return "add" }
func (Fail) Kind() string     { return "error" }
func (SetField) Kind() string { return "updateInput" }
