package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/internal/server/storage"
)

// CreateRestaurant stores a new restaurant
func (s *Storage) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, description, city, client_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		restaurant.ID,
		restaurant.Name,
		restaurant.Description,
		restaurant.City,
		restaurant.ClientID,
		restaurant.CreatedAt.UnixMilli(),
	)

	if err != nil {
		// Проверяем на duplicate id
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrRestaurantAlreadyExists
		}
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}

	return nil
}

// GetRestaurant retrieves restaurant by ID
func (s *Storage) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	query := `
		SELECT id, name, description, city, client_id, created_at
		FROM restaurants
		WHERE id = ?
	`

	restaurant := &models.Restaurant{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Description,
		&restaurant.City,
		&restaurant.ClientID,
		&createdAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	restaurant.CreatedAt = time.UnixMilli(createdAt).UTC()

	return restaurant, nil
}

// ListRestaurants retrieves all restaurants in creation order
func (s *Storage) ListRestaurants(ctx context.Context) (restaurants []models.Restaurant, err error) {
	query := `
		SELECT id, name, description, city, client_id, created_at
		FROM restaurants
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	restaurants = []models.Restaurant{}
	for rows.Next() {
		var restaurant models.Restaurant
		var createdAt int64

		if err := rows.Scan(
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.Description,
			&restaurant.City,
			&restaurant.ClientID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}

		restaurant.CreatedAt = time.UnixMilli(createdAt).UTC()
		restaurants = append(restaurants, restaurant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return restaurants, nil
}
