package experience

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffbeard/storylift/internal/types"
)

func TestNormalizeStoryBank_TrimsFields(t *testing.T) {
	bank, err := LoadStoryBank(filepath.Join("testdata", "stories.json"))
	require.NoError(t, err)

	require.NoError(t, NormalizeStoryBank(bank))

	story := bank.Stories[1]
	assert.Equal(t, "Migrated to GitLab security scanning", story.Title)
	assert.Equal(t, "GitLab made our separate scanning platform redundant.", story.Situation)
}

func TestNormalizeStoryBank_BlankTitle(t *testing.T) {
	bank := &types.StoryBank{Stories: []types.StoryInput{
		{Title: "ok"},
		{Title: "   ", Situation: "something"},
	}}

	err := NormalizeStoryBank(bank)

	var normErr *NormalizationError
	require.True(t, errors.As(err, &normErr))
	assert.Contains(t, normErr.Message, "story 1")
}

func TestNormalizeStoryBank_Empty(t *testing.T) {
	assert.NoError(t, NormalizeStoryBank(&types.StoryBank{}))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"trims", "  hello  ", "hello"},
		{"collapses spaces", "led   a\tteam", "led a team"},
		{"line endings", "one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"blank lines", "para one\n\n\n\npara two", "para one\n\npara two"},
		{"whitespace-only lines", "a\n   \n \t\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}
