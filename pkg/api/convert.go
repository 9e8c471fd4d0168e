package api

import "github.com/iudanet/restaurants/internal/models"

// FromModel конвертирует доменную модель в API формат
func FromModel(r models.Restaurant) Restaurant {
	return Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		City:        r.City,
		ClientID:    r.ClientID,
		CreatedAt:   r.CreatedAt,
	}
}

// ToModel конвертирует API формат в доменную модель
func (r Restaurant) ToModel() models.Restaurant {
	return models.Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		City:        r.City,
		ClientID:    r.ClientID,
		CreatedAt:   r.CreatedAt,
	}
}
