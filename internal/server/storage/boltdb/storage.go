package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/restaurants/internal/server/storage"
)

var (
	// BoltDB bucket names
	bucketRestaurants = []byte("restaurants")
	bucketIndex       = []byte("restaurants_by_id")
)

var _ storage.RestaurantStorage = (*Storage)(nil)

// Storage represents BoltDB storage implementation for server
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB; ждем блокировку файла не дольше секунды
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping проверяет, что файл базы открыт
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketRestaurants) == nil {
			return fmt.Errorf("bucket %s not found", bucketRestaurants)
		}
		return nil
	})
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Записи ресторанов по порядковому номеру
		if _, err := tx.CreateBucketIfNotExists(bucketRestaurants); err != nil {
			return fmt.Errorf("failed to create restaurants bucket: %w", err)
		}

		// Индекс id -> порядковый номер
		if _, err := tx.CreateBucketIfNotExists(bucketIndex); err != nil {
			return fmt.Errorf("failed to create index bucket: %w", err)
		}

		return nil
	})
}
