package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/restaurants/internal/models"
	"github.com/iudanet/restaurants/internal/server/storage"
)

// CreateRestaurant stores a restaurant under the next bucket sequence,
// so cursor order is creation order
func (s *Storage) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	data, err := json.Marshal(restaurant)
	if err != nil {
		return fmt.Errorf("failed to marshal restaurant: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRestaurants)
		index := tx.Bucket(bucketIndex)

		if index.Get([]byte(restaurant.ID)) != nil {
			return storage.ErrRestaurantAlreadyExists
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		key := seqKey(seq)

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save restaurant: %w", err)
		}
		if err := index.Put([]byte(restaurant.ID), key); err != nil {
			return fmt.Errorf("failed to save index: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, storage.ErrRestaurantAlreadyExists) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetRestaurant retrieves a restaurant by ID
func (s *Storage) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant *models.Restaurant

	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketIndex).Get([]byte(id))
		if key == nil {
			return storage.ErrRestaurantNotFound
		}

		data := tx.Bucket(bucketRestaurants).Get(key)
		if data == nil {
			return storage.ErrRestaurantNotFound
		}

		restaurant = &models.Restaurant{}
		if err := json.Unmarshal(data, restaurant); err != nil {
			return fmt.Errorf("failed to unmarshal restaurant: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return restaurant, nil
}

// ListRestaurants returns all restaurants in creation order
func (s *Storage) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRestaurants).ForEach(func(k, v []byte) error {
			var restaurant models.Restaurant
			if err := json.Unmarshal(v, &restaurant); err != nil {
				return fmt.Errorf("failed to unmarshal restaurant: %w", err)
			}
			restaurants = append(restaurants, restaurant)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	return restaurants, nil
}

// seqKey big-endian ключ: лексикографический порядок совпадает с числовым
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
