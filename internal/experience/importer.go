package experience

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeffbeard/storylift/internal/types"
)

// StoryCreator persists a new story, filling in its ID and timestamps
type StoryCreator interface {
	CreateStory(ctx context.Context, s *types.Story) error
}

// ImportResult summarizes an import run
type ImportResult struct {
	Created []types.Story
	Failed  []string // titles
}

// Importer writes story bank entries for one user
type Importer struct {
	store  StoryCreator
	logger *zap.Logger
}

// NewImporter creates an importer. A nil logger discards output.
func NewImporter(store StoryCreator, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: store, logger: logger}
}

// Import creates every story in bank for userID. A failed story is logged and
// skipped; only context cancellation stops the run early.
func (im *Importer) Import(ctx context.Context, userID uuid.UUID, bank *types.StoryBank) (*ImportResult, error) {
	result := &ImportResult{Created: make([]types.Story, 0, len(bank.Stories))}

	for _, in := range bank.Stories {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		story := types.Story{
			UserID:      userID,
			Title:       in.Title,
			Description: in.Description,
			Situation:   in.Situation,
			Task:        in.Task,
			Action:      in.Action,
			Result:      in.Result,
			Notes:       in.Notes,
		}
		if err := im.store.CreateStory(ctx, &story); err != nil {
			im.logger.Error("failed to create story", zap.String("title", in.Title), zap.Error(err))
			result.Failed = append(result.Failed, in.Title)
			continue
		}

		im.logger.Info("created story", zap.String("title", story.Title), zap.String("id", story.ID.String()))
		result.Created = append(result.Created, story)
	}

	return result, nil
}
