// Package matching orchestrates story suggestions for job requirements and
// records the mappings a user approves.
package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeffbeard/storylift/internal/types"
)

// DefaultConcurrency bounds how many requirements are ranked at once.
const DefaultConcurrency = 4

// Store is the persistence the matching service depends on.
type Store interface {
	ListRequirementsByJob(ctx context.Context, jobID uuid.UUID) ([]types.Requirement, error)
	ListStoriesWithMappings(ctx context.Context, userID uuid.UUID) ([]types.Story, error)
	ListStoriesForRequirement(ctx context.Context, requirementID uuid.UUID) ([]types.MappedStory, error)
	MapStory(ctx context.Context, storyID, requirementID uuid.UUID) error
	UnmapStory(ctx context.Context, storyID, requirementID uuid.UUID) error
}

// Ranker proposes candidate stories for one requirement.
type Ranker interface {
	Rank(ctx context.Context, req *types.Requirement, stories []types.Story) ([]types.CandidateMatch, error)
}

// Options configures a Service.
type Options struct {
	Concurrency int
	Logger      *zap.Logger
}

// Service matches stories to requirements.
type Service struct {
	store       Store
	ranker      Ranker
	concurrency int
	logger      *zap.Logger
}

// NewService creates a matching service.
func NewService(store Store, ranker Ranker, opts Options) *Service {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:       store,
		ranker:      ranker,
		concurrency: concurrency,
		logger:      logger,
	}
}

// FindMatches proposes stories for each requirement, in requirement order.
// Requirements with no candidate are left out. If loading stories or scoring fails
// the error is logged and the result is empty; it never returns partial results.
func (s *Service) FindMatches(ctx context.Context, userID uuid.UUID, requirements []types.Requirement) []types.RequirementMatch {
	if len(requirements) == 0 {
		return []types.RequirementMatch{}
	}

	start := time.Now()
	defer func() {
		FindMatchesDuration.Observe(time.Since(start).Seconds())
	}()

	matches, err := s.findMatches(ctx, userID, requirements)
	if err != nil {
		DegradedResults.Inc()
		s.logger.Error("error finding story matches",
			zap.String("user_id", userID.String()),
			zap.Int("requirements", len(requirements)),
			zap.Error(err),
		)
		return []types.RequirementMatch{}
	}
	return matches
}

func (s *Service) findMatches(ctx context.Context, userID uuid.UUID, requirements []types.Requirement) ([]types.RequirementMatch, error) {
	stories, err := s.store.ListStoriesWithMappings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading stories: %w", err)
	}

	results := make([][]types.CandidateMatch, len(requirements))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range requirements {
		g.Go(func() error {
			candidates, err := s.ranker.Rank(gCtx, &requirements[i], stories)
			if err != nil {
				return fmt.Errorf("ranking requirement %s: %w", requirements[i].ID, err)
			}
			results[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]types.RequirementMatch, 0, len(requirements))
	for i, candidates := range results {
		if len(candidates) == 0 {
			continue
		}
		req := &requirements[i]
		matches = append(matches, types.RequirementMatch{
			RequirementID:          req.ID,
			RequirementTitle:       req.Title,
			RequirementDescription: req.Description,
			SuggestedStories:       candidates,
		})
	}

	s.logger.Debug("matched requirements",
		zap.String("user_id", userID.String()),
		zap.Int("stories", len(stories)),
		zap.Int("requirements", len(requirements)),
		zap.Int("with_suggestions", len(matches)),
	)
	return matches, nil
}

// RequirementsForJob lists a job's requirements ordered by type, then title.
func (s *Service) RequirementsForJob(ctx context.Context, jobID uuid.UUID) ([]types.Requirement, error) {
	reqs, err := s.store.ListRequirementsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing requirements for job %s: %w", jobID, err)
	}
	return reqs, nil
}

// MatchJob runs FindMatches over every requirement of a job.
func (s *Service) MatchJob(ctx context.Context, jobID, userID uuid.UUID) ([]types.RequirementMatch, error) {
	reqs, err := s.RequirementsForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.FindMatches(ctx, userID, reqs), nil
}

// Suggestions builds the per-job suggestions view. TotalRequirements is 0 when the job has none.
func (s *Service) Suggestions(ctx context.Context, jobID, userID uuid.UUID) (*types.SuggestionsResponse, error) {
	reqs, err := s.RequirementsForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	matches := s.FindMatches(ctx, userID, reqs)
	return types.NewSuggestionsResponse(jobID, len(reqs), matches), nil
}

// StoriesForRequirement lists the stories mapped to a requirement, most recently mapped first.
func (s *Service) StoriesForRequirement(ctx context.Context, requirementID uuid.UUID) ([]types.MappedStory, error) {
	stories, err := s.store.ListStoriesForRequirement(ctx, requirementID)
	if err != nil {
		return nil, fmt.Errorf("listing stories for requirement %s: %w", requirementID, err)
	}
	return stories, nil
}

// MapStory records an approved mapping. It reports false if the store failed.
func (s *Service) MapStory(ctx context.Context, storyID, requirementID uuid.UUID) bool {
	if err := s.store.MapStory(ctx, storyID, requirementID); err != nil {
		MappingOperations.WithLabelValues("map", "error").Inc()
		s.logger.Error("error mapping story to requirement",
			zap.String("story_id", storyID.String()),
			zap.String("requirement_id", requirementID.String()),
			zap.Error(err),
		)
		return false
	}
	MappingOperations.WithLabelValues("map", "success").Inc()
	return true
}

// UnmapStory removes a mapping. Removing an absent mapping succeeds.
func (s *Service) UnmapStory(ctx context.Context, storyID, requirementID uuid.UUID) bool {
	if err := s.store.UnmapStory(ctx, storyID, requirementID); err != nil {
		MappingOperations.WithLabelValues("unmap", "error").Inc()
		s.logger.Error("error unmapping story from requirement",
			zap.String("story_id", storyID.String()),
			zap.String("requirement_id", requirementID.String()),
			zap.Error(err),
		)
		return false
	}
	MappingOperations.WithLabelValues("unmap", "success").Inc()
	return true
}
