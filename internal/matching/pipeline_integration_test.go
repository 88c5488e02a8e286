//go:build integration && cgo

package matching

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffbeard/storylift/internal/embeddings"
	"github.com/jeffbeard/storylift/internal/ranking"
	"github.com/jeffbeard/storylift/internal/similarity"
	"github.com/jeffbeard/storylift/internal/types"
)

func newModelScorer(t *testing.T) *similarity.Scorer {
	t.Helper()
	embedder, err := embeddings.NewService(embeddings.FactoryFor(embeddings.ProviderConfig{
		Provider: embeddings.ProviderFastEmbed,
		Model:    embeddings.DefaultModel,
		CacheDir: os.Getenv("STORYLIFT_EMBEDDING_CACHE_DIR"),
	}), embeddings.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = embedder.Close() })

	if err := embedder.Initialize(context.Background()); err != nil {
		t.Skipf("fastembed unavailable: %v", err)
	}
	return similarity.NewScorer(embedder, similarity.NewDomainGuard(similarity.DefaultDomainKeywords))
}

func TestModel_CICDRequirementMatchesGitLabStory(t *testing.T) {
	scorer := newModelScorer(t)
	now := time.Now()

	req := &types.Requirement{
		ID:          uuid.New(),
		Title:       "CI/CD Experience",
		Description: "continuous integration and deployment pipelines",
		UpdatedAt:   now,
	}
	story := &types.Story{
		ID:        uuid.New(),
		Title:     "GitLab security scanning",
		Action:    "Implemented GitLab CI pipelines for automated security scanning",
		UpdatedAt: now,
	}

	score, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	assert.Greater(t, score, 0.5)

	again, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	assert.Equal(t, score, again)
}

func TestModel_HealthcareRequirementBlocksOtherDomains(t *testing.T) {
	scorer := newModelScorer(t)
	now := time.Now()

	req := &types.Requirement{
		ID:          uuid.New(),
		Title:       "Healthcare IT Experience",
		Description: "Building software systems under regulatory compliance",
		UpdatedAt:   now,
	}
	story := &types.Story{
		ID:        uuid.New(),
		Title:     "Built software systems for retail",
		Action:    "Built IT systems and software for a retail chain",
		UpdatedAt: now,
	}

	score, err := scorer.Score(context.Background(), req, story)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestModel_FindMatchesEndToEnd(t *testing.T) {
	scorer := newModelScorer(t)
	now := time.Now()

	cicd := types.Requirement{ID: uuid.New(), Title: "CI/CD Experience", Description: "continuous integration and deployment pipelines", UpdatedAt: now}
	healthcare := types.Requirement{ID: uuid.New(), Title: "Healthcare IT Experience", Description: "HIPAA compliance", UpdatedAt: now}

	gitlab := types.Story{
		ID:        uuid.New(),
		Title:     "GitLab security scanning",
		Situation: "Legacy scanners were redundant",
		Action:    "Implemented GitLab CI pipelines for automated security scanning",
		UpdatedAt: now,
	}

	store := newFakeStore()
	store.stories = []types.Story{gitlab}
	svc := NewService(store, ranking.NewRanker(scorer, ranking.Options{}), Options{})

	got := svc.FindMatches(context.Background(), uuid.New(), []types.Requirement{cicd, healthcare})

	require.Len(t, got, 1)
	assert.Equal(t, cicd.ID, got[0].RequirementID)
	require.Len(t, got[0].SuggestedStories, 1)
	assert.Greater(t, got[0].SuggestedStories[0].Score, 50)
}
