package services

import (
	"context"
	"errors"

	"restaurant-bot/db"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of plain. Do not log the input.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password is required")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether plain matches the bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// RegisterAdmin grants tgUserID edit rights on the restaurant menu and returns a fresh password.
// Registering again rotates the password and reactivates the admin.
func RegisterAdmin(ctx context.Context, tgUserID, restaurantID int64) (string, error) {
	plain, err := GenerateSecurePassword()
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(plain)
	if err != nil {
		return "", err
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO restaurant_admins (tg_user_id, restaurant_id, password_hash, is_active, updated_at)
		VALUES ($1, $2, $3, true, now())
		ON CONFLICT (tg_user_id, restaurant_id) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			is_active = true,
			updated_at = now()`,
		tgUserID, restaurantID, hash,
	)
	if err != nil {
		return "", err
	}
	return plain, nil
}

// AuthenticateAdmin checks the password against the admin's active credential for the restaurant.
func AuthenticateAdmin(ctx context.Context, tgUserID, restaurantID int64, plain string) (bool, error) {
	var hash string
	var active bool
	err := db.Pool.QueryRow(ctx, `
		SELECT password_hash, is_active FROM restaurant_admins
		WHERE tg_user_id = $1 AND restaurant_id = $2`,
		tgUserID, restaurantID,
	).Scan(&hash, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if !active {
		return false, nil
	}
	return CheckPassword(hash, plain), nil
}

// DeactivateAdmin revokes the admin without deleting the row.
func DeactivateAdmin(ctx context.Context, tgUserID, restaurantID int64) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE restaurant_admins SET is_active = false, updated_at = now()
		WHERE tg_user_id = $1 AND restaurant_id = $2`,
		tgUserID, restaurantID,
	)
	return err
}
