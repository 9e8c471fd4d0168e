package storage

import "errors"

// Common storage errors
var (
	// ErrRestaurantNotFound indicates that restaurant was not found in storage
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// ErrRestaurantAlreadyExists indicates that restaurant with this ID already exists
	ErrRestaurantAlreadyExists = errors.New("restaurant already exists")
)
