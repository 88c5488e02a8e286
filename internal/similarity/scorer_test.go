package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffbeard/storylift/internal/embeddings"
	"github.com/jeffbeard/storylift/internal/types"
)

type stubEmbedder struct {
	vectors map[string][]float32
	keys    []embeddings.Key
	err     error
}

func (s *stubEmbedder) EmbedCached(_ context.Context, key embeddings.Key, text string) ([]float32, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func TestScorer_Score(t *testing.T) {
	req := &types.Requirement{ID: uuid.New(), Title: "CI/CD Experience", Description: "pipelines", Version: "r1"}
	story := &types.Story{ID: uuid.New(), Title: "GitLab", Action: "built pipelines", Version: "s1"}

	embedder := &stubEmbedder{vectors: map[string][]float32{
		req.Text():   {1, 1, 0},
		story.Text(): {1, 0, 0},
	}}
	scorer := NewScorer(embedder, NewDomainGuard(DefaultDomainKeywords))

	score, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	assert.InDelta(t, 0.7071, score, 1e-4)

	require.Len(t, embedder.keys, 2)
	assert.Equal(t, embeddings.Key{Kind: KindRequirement, ID: req.ID.String(), Version: "r1"}, embedder.keys[0])
	assert.Equal(t, embeddings.Key{Kind: KindStory, ID: story.ID.String(), Version: "s1"}, embedder.keys[1])
}

func TestScorer_DomainMismatchSkipsEmbedding(t *testing.T) {
	embedder := &stubEmbedder{}
	scorer := NewScorer(embedder, NewDomainGuard(DefaultDomainKeywords))

	req := &types.Requirement{ID: uuid.New(), Title: "Healthcare Technology Experience"}
	story := &types.Story{ID: uuid.New(), Title: "Migrated to GitLab"}

	score, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.Empty(t, embedder.keys)
}

func TestScorer_NilGuardAlwaysEmbeds(t *testing.T) {
	embedder := &stubEmbedder{}
	scorer := NewScorer(embedder, nil)

	req := &types.Requirement{ID: uuid.New(), Title: "Healthcare Technology Experience"}
	story := &types.Story{ID: uuid.New(), Title: "Migrated to GitLab"}

	score, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Len(t, embedder.keys, 2)
}

func TestScorer_EmptyStoryScoresZero(t *testing.T) {
	embedder := &stubEmbedder{}
	scorer := NewScorer(embedder, nil)

	score, err := scorer.Score(context.Background(), &types.Requirement{ID: uuid.New(), Title: "Go"}, &types.Story{ID: uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.Empty(t, embedder.keys)
}

func TestScorer_PropagatesEmbedderErrors(t *testing.T) {
	boom := errors.New("model unavailable")
	scorer := NewScorer(&stubEmbedder{err: boom}, nil)

	_, err := scorer.Score(context.Background(), &types.Requirement{ID: uuid.New(), Title: "Go"}, &types.Story{ID: uuid.New(), Title: "Go"})
	assert.ErrorIs(t, err, boom)
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer(&stubEmbedder{vectors: map[string][]float32{
		"A": {0.3, 0.4, 0.5},
		"B": {0.5, 0.1, 0.2},
	}}, nil)

	req := &types.Requirement{ID: uuid.New(), Title: "A"}
	story := &types.Story{ID: uuid.New(), Title: "B"}

	first, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	second, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestKeysComputeVersionWhenUnset(t *testing.T) {
	req := &types.Requirement{ID: uuid.New(), Title: "Go"}
	assert.Equal(t, req.ComputeVersion(), RequirementKey(req).Version)

	story := &types.Story{ID: uuid.New()}
	assert.Equal(t, story.ID.String(), StoryKey(story).Version)
}
