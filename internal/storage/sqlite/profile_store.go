// Package sqlite implements storage.ProfileStore on SQLite via the pure-Go
// modernc.org driver, so binaries stay cgo-free.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/verdant/sommelier/internal/storage"
	"github.com/verdant/sommelier/pkg/types"
)

// Schema is the embedded table definition, applied on open.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id           TEXT PRIMARY KEY,
	preferred_effects TEXT NOT NULL DEFAULT '{}',
	avoid_effects     TEXT NOT NULL DEFAULT '[]',
	preferred_type    TEXT NOT NULL DEFAULT 'any',
	thc_tolerance     TEXT NOT NULL DEFAULT 'medium',
	preferred_flavors TEXT NOT NULL DEFAULT '[]',
	total_sessions    INTEGER NOT NULL DEFAULT 0,
	updated_at        TIMESTAMP NOT NULL
);
`

// ProfileStore implements storage.ProfileStore using SQLite.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore opens a SQLite database, configures WAL mode, and creates
// the schema.
func NewProfileStore(dsn string) (*ProfileStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Using a single open connection
	// serialises writes and avoids SQLITE_BUSY errors under concurrent load.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode lets readers proceed without blocking the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Wait instead of failing with an immediate SQLITE_BUSY when the
	// connection is held by another goroutine.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
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

	effectsJSON, avoidJSON, flavorsJSON, err := marshalProfileColumns(profile)
	if err != nil {
		return err
	}

	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, preferred_effects, avoid_effects, preferred_type,
			thc_tolerance, preferred_flavors, total_sessions, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			preferred_effects = excluded.preferred_effects,
			avoid_effects     = excluded.avoid_effects,
			preferred_type    = excluded.preferred_type,
			thc_tolerance     = excluded.thc_tolerance,
			preferred_flavors = excluded.preferred_flavors,
			total_sessions    = excluded.total_sessions,
			updated_at        = excluded.updated_at`,
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
		FROM profiles WHERE user_id = ?`, userID)

	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Delete removes a profile by user ID.
func (s *ProfileStore) Delete(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
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

func marshalProfileColumns(profile *types.Profile) (effects, avoid, flavors []byte, err error) {
	weights := profile.PreferredEffects
	if weights == nil {
		weights = map[types.Effect]int{}
	}
	effects, err = json.Marshal(weights)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal preferred effects: %w", err)
	}

	avoidEffects := profile.AvoidEffects
	if avoidEffects == nil {
		avoidEffects = []types.Effect{}
	}
	avoid, err = json.Marshal(avoidEffects)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal avoid effects: %w", err)
	}

	preferredFlavors := profile.PreferredFlavors
	if preferredFlavors == nil {
		preferredFlavors = []string{}
	}
	flavors, err = json.Marshal(preferredFlavors)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal preferred flavors: %w", err)
	}
	return effects, avoid, flavors, nil
}

func scanProfile(row *sql.Row) (*types.Profile, error) {
	var (
		p                                   types.Profile
		effectsJSON, avoidJSON, flavorsJSON []byte
		preferredType, tolerance            string
	)
	err := row.Scan(&p.UserID, &effectsJSON, &avoidJSON, &preferredType,
		&tolerance, &flavorsJSON, &p.TotalSessions, &p.UpdatedAt)
	if err != nil {
		return nil, err
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
