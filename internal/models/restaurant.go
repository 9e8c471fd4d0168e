package models

import "time"

// Restaurant представляет запись списка ресторанов.
// Запись неизменяема после создания: ни обновления, ни удаления не существует.
type Restaurant struct {
	CreatedAt   time.Time `json:"created_at"`  // CreatedAt время сохранения на сервере (пусто для оптимистичной записи)
	ID          string    `json:"id"`          // ID серверный идентификатор (ULID), пуст пока запись не сохранена
	Name        string    `json:"name"`        // Name название ресторана
	Description string    `json:"description"` // Description описание
	City        string    `json:"city"`        // City город
	ClientID    string    `json:"client_id"`   // ClientID идентификатор клиента, создавшего запись (служебное поле, не отображается)
}

// Field идентифицирует одно из полей формы черновика
type Field string

// Поля формы
const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldCity        Field = "city"
)

// Fields возвращает все поля формы в порядке отображения
func Fields() []Field {
	return []Field{FieldName, FieldDescription, FieldCity}
}

// ParseField преобразует строку в Field.
// Возвращает false, если такого поля нет.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldName, FieldDescription, FieldCity:
		return Field(s), true
	default:
		return "", false
	}
}
