package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jeffbeard/storylift/internal/types"
)

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatches([]types.RequirementMatch{
		{
			RequirementID:          uuid.New(),
			RequirementTitle:       "Kubernetes operations",
			RequirementDescription: "Run production clusters",
			SuggestedStories: []types.CandidateMatch{
				{StoryID: uuid.New(), Title: "Cluster migration", Preview: "We moved...", Score: 82, AlreadyMapped: true},
				{StoryID: uuid.New(), Title: "On-call rotation", Score: 41},
			},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Kubernetes operations")
	assert.Contains(t, output, "Run production clusters")
	assert.Contains(t, output, "1. ✓ [ 82%] Cluster migration")
	assert.Contains(t, output, "2.   [ 41%] On-call rotation")
	assert.Contains(t, output, "We moved...")
}

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatches(nil)

	assert.Contains(t, buf.String(), "No stories matched any requirement")
}

func TestPrintBox_ClipsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintMappedStories(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	mappedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stories := make([]types.MappedStory, 0, 7)
	for i := 0; i < 7; i++ {
		stories = append(stories, types.MappedStory{
			Story:    types.Story{ID: uuid.New(), Title: "Story"},
			MappedAt: mappedAt,
		})
	}

	p.PrintMappedStories(stories)
	output := buf.String()

	assert.Contains(t, output, "MAPPED STORIES")
	assert.Contains(t, output, "• Story (2024-03-01)")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintMappedStories_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMappedStories(nil)

	assert.Contains(t, buf.String(), "No stories mapped")
}
