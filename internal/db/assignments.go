package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/datagraph/internal/types"
)

const assignmentColumns = `id, project_id, user_id, match_score, status, assigned_at, updated_at`

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var a Assignment
	var status string
	if err := row.Scan(&a.ID, &a.ProjectID, &a.UserID, &a.MatchScore, &status, &a.AssignedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = types.AssignmentStatus(status)
	return &a, nil
}

func collectAssignments(rows pgx.Rows) ([]Assignment, error) {
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return out, nil
}

// ListEligibleCandidates returns the workers who may be offered the project: onboarding
// finished, at least one skill or language declared, and no assignment row of any
// status for this project.
func (db *DB) ListEligibleCandidates(ctx context.Context, projectID uuid.UUID) ([]types.CandidateProfile, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT u.id, u.skills, u.languages, u.experience_level
		FROM users u
		WHERE u.onboarding_completed
		  AND (cardinality(u.skills) > 0 OR cardinality(u.languages) > 0)
		  AND NOT EXISTS (
			SELECT 1 FROM assignments a WHERE a.project_id = $1 AND a.user_id = u.id
		  )
		ORDER BY u.id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.CandidateProfile
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Skills, &u.Languages, &u.ExperienceLevel); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, u.Candidate())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

// CommitAssignments inserts the selected workers for a project in one transaction.
// The project row is locked and its live assignment count re-read; if that count is
// not expectedCount, or the inserts would exceed max_assignments, nothing is written
// and ErrAssignmentConflict is returned.
func (db *DB) CommitAssignments(ctx context.Context, projectID uuid.UUID, expectedCount int, rows []NewAssignment) ([]Assignment, error) {
	var created []Assignment
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var maxAssignments int
		var active, published bool
		err := tx.QueryRow(ctx,
			`SELECT max_assignments, is_active, is_published FROM projects WHERE id = $1 FOR UPDATE`,
			projectID,
		).Scan(&maxAssignments, &active, &published)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if !active || !published {
			return ErrProjectClosed
		}

		var live int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM assignments WHERE project_id = $1 AND status <> 'withdrawn'`,
			projectID,
		).Scan(&live); err != nil {
			return fmt.Errorf("failed to count assignments: %w", err)
		}
		if live != expectedCount || live+len(rows) > maxAssignments {
			return ErrAssignmentConflict
		}

		for _, row := range rows {
			a, err := scanAssignment(tx.QueryRow(ctx, `
				INSERT INTO assignments (project_id, user_id, match_score, status)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (project_id, user_id) DO NOTHING
				RETURNING `+assignmentColumns,
				projectID, row.UserID, row.MatchScore, string(types.AssignmentAssigned),
			))
			if errors.Is(err, pgx.ErrNoRows) {
				// Worker was assigned to this project since the pool was read.
				return ErrAssignmentConflict
			}
			if err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
			created = append(created, *a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetAssignment retrieves an assignment by ID. Returns nil, nil if not found.
func (db *DB) GetAssignment(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	a, err := scanAssignment(db.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// ListAssignmentsByProject returns a project's assignments, highest score first.
func (db *DB) ListAssignmentsByProject(ctx context.Context, projectID uuid.UUID) ([]Assignment, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+assignmentColumns+`
		FROM assignments
		WHERE project_id = $1
		ORDER BY match_score DESC, user_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project assignments: %w", err)
	}
	return collectAssignments(rows)
}

// ListAssignmentsByUser returns a worker's assignments, newest first.
func (db *DB) ListAssignmentsByUser(ctx context.Context, userID uuid.UUID) ([]Assignment, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+assignmentColumns+`
		FROM assignments
		WHERE user_id = $1
		ORDER BY assigned_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user assignments: %w", err)
	}
	return collectAssignments(rows)
}

// UpdateAssignmentStatus moves an assignment to next if the transition is allowed.
func (db *DB) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, next types.AssignmentStatus) (*Assignment, error) {
	var updated *Assignment
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM assignments WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock assignment: %w", err)
		}
		if !types.AssignmentStatus(current).CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
		}

		updated, err = scanAssignment(tx.QueryRow(ctx, `
			UPDATE assignments SET status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+assignmentColumns, id, string(next)))
		if err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
