package services

import (
	"context"
	"errors"
	"fmt"

	"restaurant-bot/db"
	"restaurant-bot/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func timeParam(t TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Seconds()) * 1_000_000, Valid: true}
}

func timeFromColumn(v pgtype.Time) (TimeOfDay, error) {
	if !v.Valid {
		return 0, errors.New("time column is NULL")
	}
	return TimeOfDayFromSeconds(int(v.Microseconds / 1_000_000))
}

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	var r models.Restaurant
	var opening, closing pgtype.Time
	if err := row.Scan(&r.ID, &r.Name, &r.Location, &opening, &closing); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	o, err := timeFromColumn(opening)
	if err != nil {
		return nil, fmt.Errorf("restaurant %d opening: %w", r.ID, err)
	}
	c, err := timeFromColumn(closing)
	if err != nil {
		return nil, fmt.Errorf("restaurant %d closing: %w", r.ID, err)
	}
	r.Opening, r.Closing = o.Seconds(), c.Seconds()
	return &r, nil
}

// CreateRestaurant inserts the restaurant row and sets r.ID. The menu is not stored.
func CreateRestaurant(ctx context.Context, r *Restaurant) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO restaurants (name, location, opening, closing)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		r.Name(), r.Location(), timeParam(r.Opening()), timeParam(r.Closing()),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetRestaurantInfo returns the restaurant row by ID, or ErrRestaurantNotFound.
func GetRestaurantInfo(ctx context.Context, id int64) (*models.Restaurant, error) {
	return scanRestaurant(db.Pool.QueryRow(ctx, `
		SELECT id, name, location, opening, closing FROM restaurants WHERE id = $1`, id))
}

// FindRestaurantByName returns the restaurant row by its unique name, or ErrRestaurantNotFound.
func FindRestaurantByName(ctx context.Context, name string) (*models.Restaurant, error) {
	return scanRestaurant(db.Pool.QueryRow(ctx, `
		SELECT id, name, location, opening, closing FROM restaurants WHERE name = $1`, name))
}

// ListMenu returns the stored menu in position order.
func ListMenu(ctx context.Context, restaurantID int64) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT name, price FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY position, id`,
		restaurantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.Name, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// LoadRestaurant rebuilds a Restaurant with its menu from the database.
func LoadRestaurant(ctx context.Context, id int64, clock Clock) (*Restaurant, error) {
	info, err := GetRestaurantInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	return restaurantFromRows(ctx, info, clock)
}

// EnsureRestaurant loads the restaurant with the given name, creating it first if it does not exist.
// Stored opening hours win over the ones passed in.
func EnsureRestaurant(ctx context.Context, name, location string, opening, closing TimeOfDay, clock Clock) (*Restaurant, error) {
	info, err := FindRestaurantByName(ctx, name)
	if err == nil {
		return restaurantFromRows(ctx, info, clock)
	}
	if !errors.Is(err, ErrRestaurantNotFound) {
		return nil, err
	}
	r, err := NewRestaurant(name, location, opening, closing, clock)
	if err != nil {
		return nil, err
	}
	if _, err := CreateRestaurant(ctx, r); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

func restaurantFromRows(ctx context.Context, info *models.Restaurant, clock Clock) (*Restaurant, error) {
	r, err := NewRestaurant(info.Name, info.Location, TimeOfDay(info.Opening), TimeOfDay(info.Closing), clock)
	if err != nil {
		return nil, fmt.Errorf("restaurant %d: %w", info.ID, err)
	}
	r.ID = info.ID
	items, err := ListMenu(ctx, info.ID)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	for _, it := range items {
		if err := r.AddToMenu(it.Name, it.Price); err != nil {
			return nil, fmt.Errorf("menu item %q: %w", it.Name, err)
		}
	}
	return r, nil
}

// SaveMenuItem inserts the item at the end of the menu or updates the price in place.
func SaveMenuItem(ctx context.Context, restaurantID int64, item models.MenuItem) error {
	if item.Price < 0 {
		return ErrInvalidPrice
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO menu_items (restaurant_id, name, price, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), -1) + 1 FROM menu_items WHERE restaurant_id = $1))
		ON CONFLICT (restaurant_id, name) DO UPDATE SET
			price = EXCLUDED.price,
			updated_at = now()`,
		restaurantID, item.Name, item.Price,
	)
	return err
}

// DeleteMenuItem removes the item; returns *ItemNotFoundError when no row matched.
func DeleteMenuItem(ctx context.Context, restaurantID int64, name string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE restaurant_id = $1 AND name = $2`, restaurantID, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &ItemNotFoundError{Name: name}
	}
	return nil
}

// PostgresMenu persists menu changes through the shared pool.
type PostgresMenu struct{}

func (PostgresMenu) SaveMenuItem(ctx context.Context, restaurantID int64, item models.MenuItem) error {
	return SaveMenuItem(ctx, restaurantID, item)
}

func (PostgresMenu) DeleteMenuItem(ctx context.Context, restaurantID int64, name string) error {
	return DeleteMenuItem(ctx, restaurantID, name)
}
