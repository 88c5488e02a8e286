// Package ranking turns similarity scores into a short list of suggested stories per requirement.
package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jeffbeard/storylift/internal/types"
)

const (
	// DefaultThreshold is the minimum similarity a story must exceed to be suggested.
	DefaultThreshold = 0.30
	// DefaultTopK is the maximum number of suggestions per requirement.
	DefaultTopK = 3

	previewLength = 100
	legacyPreview = "undefined..."
)

// Scorer scores a story against a requirement.
type Scorer interface {
	Score(ctx context.Context, req *types.Requirement, story *types.Story) (float64, error)
}

// Options tunes a Ranker. Zero values select the defaults.
type Options struct {
	Threshold float64
	TopK      int
	// LegacyPreview renders an empty situation as "undefined..." for older web clients.
	LegacyPreview bool
}

// Ranker selects the best candidate stories for a requirement.
type Ranker struct {
	scorer    Scorer
	threshold float64
	topK      int
	legacy    bool
}

// NewRanker creates a Ranker backed by scorer.
func NewRanker(scorer Scorer, opts Options) *Ranker {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Ranker{
		scorer:    scorer,
		threshold: threshold,
		topK:      topK,
		legacy:    opts.LegacyPreview,
	}
}

// Rank scores every story, keeps those strictly above the threshold and returns at most
// TopK of them ordered by percentage score. Equal scores keep the input order.
// The first scoring error aborts the ranking.
func (r *Ranker) Rank(ctx context.Context, req *types.Requirement, stories []types.Story) ([]types.CandidateMatch, error) {
	candidates := make([]types.CandidateMatch, 0, len(stories))

	for i := range stories {
		story := &stories[i]

		score, err := r.scorer.Score(ctx, req, story)
		if err != nil {
			return nil, fmt.Errorf("scoring story %s: %w", story.ID, err)
		}
		if score <= r.threshold {
			continue
		}

		candidates = append(candidates, types.CandidateMatch{
			StoryID:       story.ID,
			Title:         story.Title,
			Preview:       r.preview(story.Situation),
			Score:         int(math.Round(score * 100)),
			AlreadyMapped: story.IsMappedTo(req.ID),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > r.topK {
		candidates = candidates[:r.topK]
	}
	return candidates, nil
}

func (r *Ranker) preview(situation string) string {
	if situation == "" {
		if r.legacy {
			return legacyPreview
		}
		return ""
	}
	return truncateText(situation, previewLength)
}

// truncateText keeps the first maxLen characters and always appends an ellipsis
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	return string(runes) + "..."
}
