package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, skills, languages, experience_level, onboarding_completed, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Skills, &u.Languages,
		&u.ExperienceLevel, &u.OnboardingCompleted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a worker with an empty profile.
func (db *DB) CreateUser(ctx context.Context, name, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := scanUser(db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING `+userColumns,
		strings.TrimSpace(name), email,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by ID. Returns nil, nil if not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpdateUserProfile replaces the user's matching profile. Returns nil, nil if the user does not exist.
func (db *DB) UpdateUserProfile(ctx context.Context, id uuid.UUID, profile UserProfile) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx, `
		UPDATE users
		SET skills = $2, languages = $3, experience_level = $4,
		    onboarding_completed = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id,
		nonNilStrings(profile.Skills),
		nonNilStrings(profile.Languages),
		profile.ExperienceLevel.Ptr(),
		profile.OnboardingCompleted,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return u, nil
}
