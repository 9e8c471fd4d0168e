package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/internal/server/storage"
)

// uniqueViolation SQLSTATE нарушения уникальности
const uniqueViolation = "23505"

// CreateRestaurant stores a new restaurant
func (s *Storage) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, description, city, client_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		restaurant.ID,
		restaurant.Name,
		restaurant.Description,
		restaurant.City,
		restaurant.ClientID,
		restaurant.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
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
		WHERE id = $1
	`

	restaurant := &models.Restaurant{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Description,
		&restaurant.City,
		&restaurant.ClientID,
		&restaurant.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return restaurant, nil
}

// ListRestaurants retrieves all restaurants in creation order
func (s *Storage) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	query := `
		SELECT id, name, description, city, client_id, created_at
		FROM restaurants
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}

	restaurants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Restaurant, error) {
		var restaurant models.Restaurant
		err := row.Scan(
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.Description,
			&restaurant.City,
			&restaurant.ClientID,
			&restaurant.CreatedAt,
		)
		return restaurant, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan restaurants: %w", err)
	}

	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}

	return restaurants, nil
}
