package services

import (
	"context"
	"errors"
	"time"

	"restaurant-bot/db"

	"github.com/jackc/pgx/v5"
)

// ThrottleCooldownCap bounds the wait after repeated wrong admin passwords.
const ThrottleCooldownCap = 30 * time.Second

// CooldownForFailCount returns min(30s, 2^failCount seconds).
func CooldownForFailCount(failCount int) time.Duration {
	if failCount < 0 {
		failCount = 0
	}
	if failCount >= 5 {
		return ThrottleCooldownCap
	}
	return time.Duration(1<<failCount) * time.Second
}

// WaitFor returns how long to wait until `until`, rounded up to whole seconds; zero when it has passed.
func WaitFor(now, until time.Time) time.Duration {
	if !now.Before(until) {
		return 0
	}
	d := until.Sub(now)
	return (d + time.Second - 1) / time.Second * time.Second
}

// LoginWait returns how long tgUserID must wait before the next admin login attempt.
func LoginWait(ctx context.Context, tgUserID int64) (time.Duration, error) {
	var until *time.Time
	err := db.Pool.QueryRow(ctx, `
		SELECT cooldown_until FROM login_throttle WHERE tg_user_id = $1`,
		tgUserID,
	).Scan(&until)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	if until == nil {
		return 0, nil
	}
	return WaitFor(time.Now(), *until), nil
}

// RecordLoginFailed bumps the failure count and starts the next cooldown.
func RecordLoginFailed(ctx context.Context, tgUserID int64) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var fails int
	err = tx.QueryRow(ctx, `SELECT fail_count FROM login_throttle WHERE tg_user_id = $1 FOR UPDATE`, tgUserID).Scan(&fails)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	fails++
	_, err = tx.Exec(ctx, `
		INSERT INTO login_throttle (tg_user_id, fail_count, last_failed_at, cooldown_until, updated_at)
		VALUES ($1, $2, now(), now() + $3 * interval '1 second', now())
		ON CONFLICT (tg_user_id) DO UPDATE SET
			fail_count = EXCLUDED.fail_count,
			last_failed_at = EXCLUDED.last_failed_at,
			cooldown_until = EXCLUDED.cooldown_until,
			updated_at = now()`,
		tgUserID, fails, int(CooldownForFailCount(fails)/time.Second),
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// RecordLoginSuccess clears the failure count.
func RecordLoginSuccess(ctx context.Context, tgUserID int64) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE login_throttle SET
			fail_count = 0,
			last_failed_at = NULL,
			cooldown_until = NULL,
			updated_at = now()
		WHERE tg_user_id = $1`,
		tgUserID,
	)
	return err
}
