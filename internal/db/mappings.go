package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jeffbeard/storylift/internal/types"
)

// MapStory records that a story answers a requirement. Mapping an existing pair only
// refreshes its updated_at, so concurrent calls converge on a single row.
func (db *DB) MapStory(ctx context.Context, storyID, requirementID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO story_requirement_mappings (story_id, requirement_id)
		 VALUES ($1, $2)
		 ON CONFLICT (story_id, requirement_id) DO UPDATE SET updated_at = NOW()`,
		storyID, requirementID,
	)
	if err != nil {
		return fmt.Errorf("failed to map story: %w", err)
	}
	return nil
}

// UnmapStory removes a mapping. Removing a pair that does not exist is not an error.
func (db *DB) UnmapStory(ctx context.Context, storyID, requirementID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM story_requirement_mappings WHERE story_id = $1 AND requirement_id = $2`,
		storyID, requirementID,
	)
	if err != nil {
		return fmt.Errorf("failed to unmap story: %w", err)
	}
	return nil
}

// GetMapping retrieves a mapping, returning nil if the pair is not mapped
func (db *DB) GetMapping(ctx context.Context, storyID, requirementID uuid.UUID) (*types.Mapping, error) {
	var m types.Mapping
	err := db.pool.QueryRow(ctx,
		`SELECT story_id, requirement_id, created_at, updated_at
		 FROM story_requirement_mappings
		 WHERE story_id = $1 AND requirement_id = $2`,
		storyID, requirementID,
	).Scan(&m.StoryID, &m.RequirementID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}
	return &m, nil
}

// ListStoriesForRequirement returns the stories mapped to a requirement, most recently mapped first
func (db *DB) ListStoriesForRequirement(ctx context.Context, requirementID uuid.UUID) ([]types.MappedStory, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.user_id, s.title,
		        COALESCE(s.description, ''), COALESCE(s.situation, ''), COALESCE(s.task, ''),
		        COALESCE(s.action, ''), COALESCE(s.result, ''), COALESCE(s.notes, ''),
		        s.created_at, s.updated_at, m.created_at AS mapped_at
		 FROM star_stories s
		 JOIN story_requirement_mappings m ON m.story_id = s.id
		 WHERE m.requirement_id = $1
		 ORDER BY m.created_at DESC`,
		requirementID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mapped stories: %w", err)
	}
	defer rows.Close()

	stories := []types.MappedStory{}
	for rows.Next() {
		var ms types.MappedStory
		if err := rows.Scan(
			&ms.ID, &ms.UserID, &ms.Title,
			&ms.Description, &ms.Situation, &ms.Task,
			&ms.Action, &ms.Result, &ms.Notes,
			&ms.CreatedAt, &ms.UpdatedAt, &ms.MappedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mapped story: %w", err)
		}
		ms.Version = ms.ComputeVersion()
		stories = append(stories, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mapped stories: %w", err)
	}
	return stories, nil
}
