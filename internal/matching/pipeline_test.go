package matching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffbeard/storylift/internal/embeddings"
	"github.com/jeffbeard/storylift/internal/ranking"
	"github.com/jeffbeard/storylift/internal/similarity"
	"github.com/jeffbeard/storylift/internal/types"
)

// bagOfWords embeds text as word counts over a fixed vocabulary.
type bagOfWords struct {
	vocab map[string]int
	err   error
}

func newBagOfWords(words ...string) *bagOfWords {
	b := &bagOfWords{vocab: map[string]int{}}
	for i, w := range words {
		b.vocab[w] = i
	}
	return b
}

func (b *bagOfWords) Embed(_ context.Context, text string) ([]float32, error) {
	if b.err != nil {
		return nil, b.err
	}
	vec := make([]float32, len(b.vocab))
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if i, ok := b.vocab[tok]; ok {
			vec[i]++
		}
	}
	return vec, nil
}

func (b *bagOfWords) Dimension() int { return len(b.vocab) }
func (b *bagOfWords) Close() error   { return nil }

func newVocabulary() *bagOfWords {
	return newBagOfWords("gitlab", "pipelines", "ci", "cd", "deployment", "continuous", "security", "healthcare", "react", "javascript", "frontend")
}

func newPipeline(t *testing.T, store Store) *Service {
	t.Helper()
	return newPipelineWith(t, store, newVocabulary())
}

func newPipelineWith(t *testing.T, store Store, provider embeddings.Provider) *Service {
	t.Helper()
	embedder, err := embeddings.NewService(func(context.Context) (embeddings.Provider, error) {
		return provider, nil
	}, embeddings.Options{CacheSize: 16})
	require.NoError(t, err)

	scorer := similarity.NewScorer(embedder, similarity.NewDomainGuard(similarity.DefaultDomainKeywords))
	return NewService(store, ranking.NewRanker(scorer, ranking.Options{}), Options{})
}

func TestPipeline_MatchesRelatedStoriesAndBlocksDomainMismatch(t *testing.T) {
	now := time.Now()
	cicd := types.Requirement{ID: uuid.New(), Title: "CI/CD Experience", Description: "continuous deployment pipelines", UpdatedAt: now}
	healthcare := types.Requirement{ID: uuid.New(), Title: "Healthcare Technology Experience", Description: "security", UpdatedAt: now}

	gitlab := types.Story{
		ID:                   uuid.New(),
		Title:                "Migrated to GitLab Security Scanning systems",
		Situation:            "GitLab's feature list grew",
		Action:               "Moved CI pipelines and continuous deployment to GitLab",
		UpdatedAt:            now,
		MappedRequirementIDs: []uuid.UUID{cicd.ID},
	}
	react := types.Story{
		ID:        uuid.New(),
		Title:     "Built React Application",
		Situation: "Needed a frontend",
		Action:    "Wrote JavaScript",
		UpdatedAt: now.Add(-time.Hour),
	}

	store := newFakeStore()
	store.stories = []types.Story{gitlab, react}
	svc := newPipeline(t, store)

	got := svc.FindMatches(context.Background(), uuid.New(), []types.Requirement{healthcare, cicd})

	require.Len(t, got, 1, "healthcare requirement has no same-domain story")
	assert.Equal(t, cicd.ID, got[0].RequirementID)
	require.Len(t, got[0].SuggestedStories, 1)

	match := got[0].SuggestedStories[0]
	assert.Equal(t, gitlab.ID, match.StoryID)
	assert.True(t, match.AlreadyMapped)
	assert.Greater(t, match.Score, 30)
	assert.LessOrEqual(t, match.Score, 100)
	assert.Equal(t, "GitLab's feature list grew...", match.Preview)
}

func TestPipeline_Deterministic(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.stories = []types.Story{{ID: uuid.New(), Title: "GitLab CI pipelines", UpdatedAt: now}}
	svc := newPipeline(t, store)

	reqs := []types.Requirement{{ID: uuid.New(), Title: "CI/CD pipelines", UpdatedAt: now}}
	first := svc.FindMatches(context.Background(), uuid.New(), reqs)
	second := svc.FindMatches(context.Background(), uuid.New(), reqs)
	assert.Equal(t, first, second)
}

func TestPipeline_ProviderFailureYieldsEmpty(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.stories = []types.Story{{ID: uuid.New(), Title: "GitLab CI pipelines", Situation: "s", UpdatedAt: now}}

	provider := newVocabulary()
	provider.err = errors.New("onnx runtime crashed")
	svc := newPipelineWith(t, store, provider)

	before := testutil.ToFloat64(DegradedResults)
	got := svc.FindMatches(context.Background(), uuid.New(), []types.Requirement{
		{ID: uuid.New(), Title: "CI/CD pipelines", UpdatedAt: now},
	})

	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, before+1, testutil.ToFloat64(DegradedResults))
}
