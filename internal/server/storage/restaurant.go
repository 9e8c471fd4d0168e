package storage

import (
	"context"

	"github.com/iudanet/restaurants/internal/models"
)

// RestaurantStorage defines interface for restaurant persistence
type RestaurantStorage interface {
	// CreateRestaurant stores a new restaurant
	// Returns ErrRestaurantAlreadyExists if restaurant with same ID exists
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error

	// GetRestaurant retrieves restaurant by ID
	// Returns ErrRestaurantNotFound if restaurant doesn't exist
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)

	// ListRestaurants retrieves all restaurants in creation order
	// Returns empty slice if no restaurants found
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases underlying resources
	Close() error
}
