package services

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidPrice       = errors.New("price must be >= 0")
	ErrInvalidHours       = errors.New("closing time must be after opening time")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrPriceOverflow      = errors.New("order total is too large")
)

// ItemNotFoundError names the menu item that was missing.
type ItemNotFoundError struct {
	Name string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrItemNotFound, e.Name)
}

func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}
