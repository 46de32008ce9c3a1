// Package repository persists user preferences in PostgreSQL as a flat
// key-value store: two string-keyed entries overwritten on every
// change, no versioning or migration logic.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventfinder/internal/domain"
)

const (
	keyZipCode   = "zipCode"
	keyInterests = "interests"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SavePreferences overwrites both entries. The zip code is stored as a
// plain string, the interest list JSON-encoded to keep its order.
func (r *Repository) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	interests, err := encodeInterests(prefs.Interests)
	if err != nil {
		return err
	}

	for _, entry := range []struct{ key, value string }{
		{keyZipCode, prefs.ZipCode},
		{keyInterests, interests},
	} {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO preferences (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			entry.key, entry.value,
		)
		if err != nil {
			return fmt.Errorf("save preference %s: %w", entry.key, err)
		}
	}
	return nil
}

// LoadPreferences reads both entries; missing keys yield zero values.
func (r *Repository) LoadPreferences(ctx context.Context) (domain.Preferences, error) {
	var prefs domain.Preferences

	zipCode, err := r.get(ctx, keyZipCode)
	if err != nil {
		return prefs, err
	}
	prefs.ZipCode = zipCode

	raw, err := r.get(ctx, keyInterests)
	if err != nil {
		return prefs, err
	}
	if raw != "" {
		interests, err := decodeInterests(raw)
		if err != nil {
			return prefs, err
		}
		prefs.Interests = interests
	}

	return prefs, nil
}

func (r *Repository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM preferences WHERE key = $1`, key,
	).Scan(&value)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query preference %s: %w", key, err)
	}
	return value, nil
}

func encodeInterests(interests []string) (string, error) {
	if interests == nil {
		interests = []string{}
	}
	raw, err := json.Marshal(interests)
	if err != nil {
		return "", fmt.Errorf("encode interests: %w", err)
	}
	return string(raw), nil
}

func decodeInterests(raw string) ([]string, error) {
	var interests []string
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	return interests, nil
}
