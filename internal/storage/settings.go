package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

const windowHoursKey = "fatigue_window_hours"

// GetWindowHours returns the stored fatigue window, or fallback when unset.
func (db *DB) GetWindowHours(ctx context.Context, fallback int) (int, error) {
	var v string
	err := db.Pool.QueryRow(ctx, `SELECT value FROM profile_settings WHERE key = $1`, windowHoursKey).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying window setting: %w", err)
	}
	hours, err := strconv.Atoi(v)
	if err != nil || hours <= 0 {
		return fallback, nil
	}
	return hours, nil
}

// SetWindowHours stores the fatigue window.
func (db *DB) SetWindowHours(ctx context.Context, hours int) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO profile_settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		windowHoursKey, strconv.Itoa(hours))
	if err != nil {
		return fmt.Errorf("storing window setting: %w", err)
	}
	return nil
}
