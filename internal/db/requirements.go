package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jeffbeard/storylift/internal/types"
)

const requirementColumns = `id, job_description_id, type, title, COALESCE(description, ''), created_at, updated_at`

// ListRequirementsByJob returns the requirements of a job description ordered by type, then title
func (db *DB) ListRequirementsByJob(ctx context.Context, jobID uuid.UUID) ([]types.Requirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+requirementColumns+`
		 FROM job_requirements
		 WHERE job_description_id = $1
		 ORDER BY type, title`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	requirements := []types.Requirement{}
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		requirements = append(requirements, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requirements: %w", err)
	}
	return requirements, nil
}

// GetRequirement retrieves a requirement by ID, returning nil if it does not exist
func (db *DB) GetRequirement(ctx context.Context, id uuid.UUID) (*types.Requirement, error) {
	r, err := scanRequirement(db.pool.QueryRow(ctx,
		`SELECT `+requirementColumns+` FROM job_requirements WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// CreateRequirement inserts a requirement and fills in its generated fields
func (db *DB) CreateRequirement(ctx context.Context, r *types.Requirement) error {
	if !types.ValidRequirementType(r.Type) {
		return fmt.Errorf("invalid requirement type %q", r.Type)
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_requirements (job_description_id, type, title, description)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING id, created_at, updated_at`,
		r.JobDescriptionID, r.Type, r.Title, r.Description,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create requirement: %w", err)
	}
	r.Version = r.ComputeVersion()
	return nil
}

func scanRequirement(row pgx.Row) (*types.Requirement, error) {
	var r types.Requirement
	if err := row.Scan(&r.ID, &r.JobDescriptionID, &r.Type, &r.Title, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan requirement: %w", err)
	}
	r.Version = r.ComputeVersion()
	return &r, nil
}
