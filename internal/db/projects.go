package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// liveCountExpr counts the non-withdrawn assignments of the project aliased p.
const liveCountExpr = `(SELECT COUNT(*) FROM assignments a WHERE a.project_id = p.id AND a.status <> 'withdrawn')`

const projectColumns = `p.id, p.title, p.description, p.required_skills, p.required_languages,
	p.required_experience, p.max_assignments, p.is_active, p.is_published, ` + liveCountExpr + `,
	p.created_at, p.updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.RequiredSkills, &p.RequiredLanguages,
		&p.RequiredExperience, &p.MaxAssignments, &p.IsActive, &p.IsPublished, &p.AssignedCount,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]Project, error) {
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// CreateProject inserts a new project.
func (db *DB) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx, `
		INSERT INTO projects (title, description, required_skills, required_languages,
			required_experience, max_assignments, is_active, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		in.Title, in.Description,
		nonNilStrings(in.RequiredSkills), nonNilStrings(in.RequiredLanguages),
		in.RequiredExperience.Ptr(), in.MaxAssignments, in.IsActive, in.IsPublished,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return db.GetProject(ctx, id)
}

// GetProject retrieves a project with its live assignment count. Returns nil, nil if not found.
func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := scanProject(db.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListProjects returns projects newest first.
func (db *DB) ListProjects(ctx context.Context, filters ProjectFilters) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p`
	if filters.OpenOnly {
		query += ` WHERE p.is_published AND p.is_active`
	}
	query += ` ORDER BY p.created_at DESC, p.id`

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT $1 OFFSET $2`

	rows, err := db.pool.Query(ctx, query, limit, max(filters.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return collectProjects(rows)
}

// ListOpenProjects returns published, active projects that still have capacity,
// oldest first so auto-assign fills long-waiting projects before new ones.
func (db *DB) ListOpenProjects(ctx context.Context) ([]Project, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		WHERE p.is_published AND p.is_active
		  AND `+liveCountExpr+` < p.max_assignments
		ORDER BY p.created_at, p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list open projects: %w", err)
	}
	return collectProjects(rows)
}

// UpdateProject applies a partial update. The project row is locked so the capacity
// check against live assignments cannot race a concurrent commit.
// Returns nil, nil if the project does not exist.
func (db *DB) UpdateProject(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (*Project, error) {
	found := true
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var current int
		err := tx.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, id).Scan(new(uuid.UUID))
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}

		if upd.MaxAssignments != nil {
			if err := tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM assignments WHERE project_id = $1 AND status <> 'withdrawn'`, id,
			).Scan(&current); err != nil {
				return fmt.Errorf("failed to count assignments: %w", err)
			}
			if *upd.MaxAssignments < current {
				return ErrCapacityBelowAssigned
			}
		}

		var skills, languages []string
		if upd.RequiredSkills != nil {
			skills = upd.RequiredSkills
		}
		if upd.RequiredLanguages != nil {
			languages = upd.RequiredLanguages
		}

		// required_experience uses a flag because NULL is a meaningful new value.
		var experience *string
		setExperience := upd.RequiredExperience != nil
		if setExperience {
			experience = upd.RequiredExperience.Ptr()
		}

		_, err = tx.Exec(ctx, `
			UPDATE projects SET
				title = COALESCE($2, title),
				description = COALESCE($3, description),
				required_skills = COALESCE($4, required_skills),
				required_languages = COALESCE($5, required_languages),
				required_experience = CASE WHEN $6 THEN $7 ELSE required_experience END,
				max_assignments = COALESCE($8, max_assignments),
				is_active = COALESCE($9, is_active),
				is_published = COALESCE($10, is_published),
				updated_at = NOW()
			WHERE id = $1`,
			id, upd.Title, upd.Description, skills, languages,
			setExperience, experience, upd.MaxAssignments, upd.IsActive, upd.IsPublished,
		)
		if err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return db.GetProject(ctx, id)
}
