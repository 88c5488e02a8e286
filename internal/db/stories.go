package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jeffbeard/storylift/internal/types"
)

// ListStoriesWithMappings returns every story owned by the user, most recently updated first,
// each carrying the IDs of the requirements it is already mapped to. One query, no N+1.
func (db *DB) ListStoriesWithMappings(ctx context.Context, userID uuid.UUID) ([]types.Story, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.user_id, s.title,
		        COALESCE(s.description, ''), COALESCE(s.situation, ''), COALESCE(s.task, ''),
		        COALESCE(s.action, ''), COALESCE(s.result, ''), COALESCE(s.notes, ''),
		        s.created_at, s.updated_at,
		        COALESCE(array_agg(m.requirement_id::text ORDER BY m.created_at)
		                 FILTER (WHERE m.requirement_id IS NOT NULL), '{}') AS mapped_requirement_ids
		 FROM star_stories s
		 LEFT JOIN story_requirement_mappings m ON m.story_id = s.id
		 WHERE s.user_id = $1
		 GROUP BY s.id
		 ORDER BY s.updated_at DESC, s.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	stories := []types.Story{}
	for rows.Next() {
		var s types.Story
		var mapped []string
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Title,
			&s.Description, &s.Situation, &s.Task,
			&s.Action, &s.Result, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
			&mapped,
		); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}

		s.MappedRequirementIDs = make([]uuid.UUID, 0, len(mapped))
		for _, raw := range mapped {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid mapped requirement id %q for story %s: %w", raw, s.ID, err)
			}
			s.MappedRequirementIDs = append(s.MappedRequirementIDs, id)
		}
		s.Version = s.ComputeVersion()
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}
	return stories, nil
}

// CreateStory inserts a story and fills in its generated fields
func (db *DB) CreateStory(ctx context.Context, s *types.Story) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO star_stories (user_id, title, description, situation, task, action, result, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		s.UserID, s.Title, s.Description, s.Situation, s.Task, s.Action, s.Result, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	s.Version = s.ComputeVersion()
	return nil
}

// TouchStory bumps a story's updated_at, changing its content version
func (db *DB) TouchStory(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `UPDATE star_stories SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch story: %w", err)
	}
	return nil
}
