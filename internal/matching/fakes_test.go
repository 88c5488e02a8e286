package matching

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jeffbeard/storylift/internal/types"
)

type fakeStore struct {
	requirements []types.Requirement
	stories      []types.Story
	mapped       []types.MappedStory
	err          error

	storyReads atomic.Int64

	mu       sync.Mutex
	mappings map[[2]uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{mappings: map[[2]uuid.UUID]bool{}}
}

func (f *fakeStore) ListRequirementsByJob(context.Context, uuid.UUID) ([]types.Requirement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.requirements, nil
}

func (f *fakeStore) ListStoriesWithMappings(context.Context, uuid.UUID) ([]types.Story, error) {
	f.storyReads.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.stories, nil
}

func (f *fakeStore) ListStoriesForRequirement(context.Context, uuid.UUID) ([]types.MappedStory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.mapped, nil
}

func (f *fakeStore) MapStory(_ context.Context, storyID, requirementID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mappings[[2]uuid.UUID{storyID, requirementID}] = true
	return nil
}

func (f *fakeStore) UnmapStory(_ context.Context, storyID, requirementID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.mappings, [2]uuid.UUID{storyID, requirementID})
	return nil
}

// fakeRanker returns canned candidates per requirement title.
type fakeRanker struct {
	byTitle map[string][]types.CandidateMatch
	failOn  string
	err     error
	calls   atomic.Int64
}

func (f *fakeRanker) Rank(_ context.Context, req *types.Requirement, _ []types.Story) ([]types.CandidateMatch, error) {
	f.calls.Add(1)
	if f.failOn != "" && req.Title == f.failOn {
		return nil, f.err
	}
	return f.byTitle[req.Title], nil
}
