package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStory_Text(t *testing.T) {
	story := Story{
		Title:     "Migrated to GitLab",
		Situation: "Legacy scanners",
		Action:    "Implemented GitLab CI pipelines",
		Notes:     "never embedded",
	}

	text := story.Text()
	assert.Contains(t, text, "Migrated to GitLab")
	assert.Contains(t, text, "Implemented GitLab CI pipelines")
	assert.NotContains(t, text, "never embedded")
}

func TestStory_Text_EmptyFields(t *testing.T) {
	story := Story{Title: "Built React Application"}
	assert.Equal(t, "Built React Application", story.Text())
}

func TestStory_ComputeVersion(t *testing.T) {
	id := uuid.New()

	t.Run("falls back to id when updated is unset", func(t *testing.T) {
		story := Story{ID: id}
		assert.Equal(t, id.String(), story.ComputeVersion())
	})

	t.Run("changes when updated changes", func(t *testing.T) {
		ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		a := Story{ID: id, UpdatedAt: ts}
		b := Story{ID: id, UpdatedAt: ts.Add(time.Second)}
		assert.NotEqual(t, a.ComputeVersion(), b.ComputeVersion())
		assert.Equal(t, a.ComputeVersion(), a.ComputeVersion())
	})
}

func TestStory_IsMappedTo(t *testing.T) {
	mapped := uuid.New()
	story := Story{MappedRequirementIDs: []uuid.UUID{uuid.New(), mapped}}

	assert.True(t, story.IsMappedTo(mapped))
	assert.False(t, story.IsMappedTo(uuid.New()))
	assert.False(t, (&Story{}).IsMappedTo(mapped))
}

func TestTimestampKeysUseSnakeCase(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	payloads := map[string]any{
		"story":        Story{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		"mapped story": MappedStory{Story: Story{ID: uuid.New(), UpdatedAt: now}, MappedAt: now},
		"mapping":      Mapping{StoryID: uuid.New(), RequirementID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		"requirement":  Requirement{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(payload)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			assert.Contains(t, fields, "created_at")
			assert.Contains(t, fields, "updated_at")
			assert.NotContains(t, fields, "created")
			assert.NotContains(t, fields, "updated")
		})
	}
}
