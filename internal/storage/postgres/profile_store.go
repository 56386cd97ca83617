// Package postgres implements storage.ProfileStore on PostgreSQL, for
// deployments where several instances share one profile database.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/verdant/sommelier/internal/storage"
	"github.com/verdant/sommelier/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id           TEXT PRIMARY KEY,
	preferred_effects JSONB NOT NULL DEFAULT '{}',
	avoid_effects     JSONB NOT NULL DEFAULT '[]',
	preferred_type    TEXT NOT NULL DEFAULT 'any',
	thc_tolerance     TEXT NOT NULL DEFAULT 'medium',
	preferred_flavors JSONB NOT NULL DEFAULT '[]',
	total_sessions    INTEGER NOT NULL DEFAULT 0,
	updated_at        TIMESTAMPTZ NOT NULL
);
`

// ProfileStore implements storage.ProfileStore using PostgreSQL.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore connects to PostgreSQL using the given DSN and creates the
// schema if it does not exist.
func NewProfileStore(dsn string) (*ProfileStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &ProfileStore{db: db}, nil
}

// Put creates or updates a profile (upsert semantics).
func (s *ProfileStore) Put(ctx context.Context, profile *types.Profile) error {
	if profile == nil {
		return storage.ErrInvalidInput
	}
	if profile.UserID == "" {
		return fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	weights := profile.PreferredEffects
	if weights == nil {
		weights = map[types.Effect]int{}
	}
	effectsJSON, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("failed to marshal preferred effects: %w", err)
	}

	avoidEffects := profile.AvoidEffects
	if avoidEffects == nil {
		avoidEffects = []types.Effect{}
	}
	avoidJSON, err := json.Marshal(avoidEffects)
	if err != nil {
		return fmt.Errorf("failed to marshal avoid effects: %w", err)
	}

	preferredFlavors := profile.PreferredFlavors
	if preferredFlavors == nil {
		preferredFlavors = []string{}
	}
	flavorsJSON, err := json.Marshal(preferredFlavors)
	if err != nil {
		return fmt.Errorf("failed to marshal preferred flavors: %w", err)
	}

	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, preferred_effects, avoid_effects, preferred_type,
			thc_tolerance, preferred_flavors, total_sessions, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_effects = EXCLUDED.preferred_effects,
			avoid_effects     = EXCLUDED.avoid_effects,
			preferred_type    = EXCLUDED.preferred_type,
			thc_tolerance     = EXCLUDED.thc_tolerance,
			preferred_flavors = EXCLUDED.preferred_flavors,
			total_sessions    = EXCLUDED.total_sessions,
			updated_at        = EXCLUDED.updated_at`,
		profile.UserID, effectsJSON, avoidJSON, string(profile.PreferredType),
		string(profile.THCTolerance), flavorsJSON, profile.TotalSessions, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

// Get retrieves a profile by user ID.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*types.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, preferred_effects, avoid_effects, preferred_type,
		       thc_tolerance, preferred_flavors, total_sessions, updated_at
		FROM profiles WHERE user_id = $1`, userID)

	var (
		p                                   types.Profile
		effectsJSON, avoidJSON, flavorsJSON []byte
		preferredType, tolerance            string
	)
	err := row.Scan(&p.UserID, &effectsJSON, &avoidJSON, &preferredType,
		&tolerance, &flavorsJSON, &p.TotalSessions, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal(effectsJSON, &p.PreferredEffects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferred effects: %w", err)
	}
	if err := json.Unmarshal(avoidJSON, &p.AvoidEffects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal avoid effects: %w", err)
	}
	if err := json.Unmarshal(flavorsJSON, &p.PreferredFlavors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferred flavors: %w", err)
	}
	p.PreferredType = types.StrainType(preferredType)
	p.THCTolerance = types.Tolerance(tolerance)
	return &p, nil
}

// Delete removes a profile by user ID.
func (s *ProfileStore) Delete(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *ProfileStore) Close() error {
	return s.db.Close()
}
