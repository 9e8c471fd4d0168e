// Package state хранит ViewState клиента и применяет к нему переходы.
//
// Apply чистая функция (ViewState, Transition) -> ViewState без побочных
// эффектов. Store единственный владелец состояния: переходы применяются
// по одному в порядке поступления одной горутиной-мутатором.
package state

import (
	"slices"

	"github.com/iudanet/restaurants/internal/models"
)

// Draft черновик формы: три независимых поля ввода
type Draft struct {
	Name        string
	Description string
	City        string
}

// Get возвращает значение поля черновика
func (d Draft) Get(field models.Field) string {
	switch field {
	case models.FieldName:
		return d.Name
	case models.FieldDescription:
		return d.Description
	case models.FieldCity:
		return d.City
	default:
		return ""
	}
}

// ViewState агрегат {флаг ошибки, коллекция, черновик формы}
type ViewState struct {
	Restaurants []models.Restaurant
	Draft       Draft
	Error       bool
}

// Clone возвращает копию состояния, не разделяющую коллекцию с оригиналом
func (s ViewState) Clone() ViewState {
	s.Restaurants = slices.Clone(s.Restaurants)
	return s
}

// Apply применяет переход к состоянию и возвращает новое состояние.
// Исходное состояние не изменяется.
func Apply(s ViewState, t Transition) ViewState {
	switch t := t.(type) {
	case Replace:
		s.Restaurants = slices.Clone(t.Restaurants)
	case Append:
		next := make([]models.Restaurant, len(s.Restaurants), len(s.Restaurants)+1)
		copy(next, s.Restaurants)
		s.Restaurants = append(next, t.Restaurant)
	case Fail:
		s.Error = true
	case SetField:
		switch t.Field {
		case models.FieldName:
			s.Draft.Name = t.Value
		case models.FieldDescription:
			s.Draft.Description = t.Value
		case models.FieldCity:
			s.Draft.City = t.Value
		}
	}
	return s
}
