// Package similarity scores how well a story answers a requirement.
package similarity

import (
	"context"
	"fmt"

	"github.com/jeffbeard/storylift/internal/embeddings"
	"github.com/jeffbeard/storylift/internal/types"
)

// Cache key kinds
const (
	KindRequirement = "requirement"
	KindStory       = "story"
)

// Embedder returns a cached embedding for a versioned piece of content.
type Embedder interface {
	EmbedCached(ctx context.Context, key embeddings.Key, text string) ([]float32, error)
}

// Scorer computes requirement/story similarity in [-1, 1], with 0 for domain mismatches.
type Scorer struct {
	embedder Embedder
	guard    *DomainGuard
}

// NewScorer creates a Scorer. A nil guard disables the domain check.
func NewScorer(embedder Embedder, guard *DomainGuard) *Scorer {
	return &Scorer{embedder: embedder, guard: guard}
}

// Score returns the cosine similarity between the requirement and story texts.
// Domain mismatches and empty texts score 0 without calling the embedder.
func (s *Scorer) Score(ctx context.Context, req *types.Requirement, story *types.Story) (float64, error) {
	reqText := req.Text()
	storyText := story.Text()

	if reqText == "" || storyText == "" {
		return 0, nil
	}
	if s.guard.Mismatch(reqText, storyText) {
		return 0, nil
	}

	reqVec, err := s.embedder.EmbedCached(ctx, RequirementKey(req), reqText)
	if err != nil {
		return 0, fmt.Errorf("embedding requirement %s: %w", req.ID, err)
	}
	storyVec, err := s.embedder.EmbedCached(ctx, StoryKey(story), storyText)
	if err != nil {
		return 0, fmt.Errorf("embedding story %s: %w", story.ID, err)
	}

	return Cosine(reqVec, storyVec), nil
}

// RequirementKey is the cache key for a requirement's current content.
func RequirementKey(req *types.Requirement) embeddings.Key {
	version := req.Version
	if version == "" {
		version = req.ComputeVersion()
	}
	return embeddings.Key{Kind: KindRequirement, ID: req.ID.String(), Version: version}
}

// StoryKey is the cache key for a story's current content.
func StoryKey(story *types.Story) embeddings.Key {
	version := story.Version
	if version == "" {
		version = story.ComputeVersion()
	}
	return embeddings.Key{Kind: KindStory, ID: story.ID.String(), Version: version}
}
