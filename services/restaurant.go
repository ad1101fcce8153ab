package services

import (
	"errors"
	"math"
	"sync"

	"restaurant-bot/models"
)

// Restaurant is one restaurant with its opening window and menu. Safe for concurrent use.
type Restaurant struct {
	ID       int64
	name     string
	location string
	opening  TimeOfDay
	closing  TimeOfDay
	clock    Clock

	mu    sync.RWMutex
	items []models.MenuItem // insertion order
	index map[string]int    // name -> position in items
}

// NewRestaurant returns a restaurant with an empty menu. A nil clock means the system clock.
func NewRestaurant(name, location string, opening, closing TimeOfDay, clock Clock) (*Restaurant, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if location == "" {
		return nil, errors.New("location is required")
	}
	if !opening.Before(closing) {
		return nil, ErrInvalidHours
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Restaurant{
		name:     name,
		location: location,
		opening:  opening,
		closing:  closing,
		clock:    clock,
		index:    make(map[string]int),
	}, nil
}

func (r *Restaurant) Name() string { return r.name }
func (r *Restaurant) Location() string { return r.location }
func (r *Restaurant) Opening() TimeOfDay { return r.opening }
func (r *Restaurant) Closing() TimeOfDay { return r.closing }

// IsOpen checks the current clock time against the opening window.
func (r *Restaurant) IsOpen() bool {
	return r.IsOpenAt(TimeOfDayOf(r.clock.Now()))
}

// IsOpenAt reports whether t falls strictly inside (opening, closing).
// The restaurant is closed at exactly the opening and closing time.
func (r *Restaurant) IsOpenAt(t TimeOfDay) bool {
	return t.After(r.opening) && t.Before(r.closing)
}

// AddToMenu inserts the item or updates its price if the name is already on the menu.
func (r *Restaurant) AddToMenu(name string, price int64) error {
	if name == "" {
		return errors.New("item name is required")
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[name]; ok {
		r.items[i].Price = price
		return nil
	}
	r.index[name] = len(r.items)
	r.items = append(r.items, models.MenuItem{Name: name, Price: price})
	return nil
}

// RemoveFromMenu deletes the item; it returns *ItemNotFoundError if the name is not on the menu.
func (r *Restaurant) RemoveFromMenu(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[name]
	if !ok {
		return &ItemNotFoundError{Name: name}
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.index, name)
	for j := i; j < len(r.items); j++ {
		r.index[r.items[j].Name] = j
	}
	return nil
}

// Menu returns a copy of the menu in the order items were added.
func (r *Restaurant) Menu() []models.MenuItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.MenuItem, len(r.items))
	copy(out, r.items)
	return out
}

// Price looks up a single item.
func (r *Restaurant) Price(name string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return 0, &ItemNotFoundError{Name: name}
	}
	return r.items[i].Price, nil
}

// CalculatePriceOfItems sums the prices of names; duplicates are counted each time.
// The first name missing from the menu fails the whole calculation, as does a
// total that does not fit in int64.
func (r *Restaurant) CalculatePriceOfItems(names []string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, name := range names {
		i, ok := r.index[name]
		if !ok {
			return 0, &ItemNotFoundError{Name: name}
		}
		p := r.items[i].Price
		if total > math.MaxInt64-p {
			return 0, ErrPriceOverflow
		}
		total += p
	}
	return total, nil
}
