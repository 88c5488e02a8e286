package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Story is a STAR-structured (Situation/Task/Action/Result) experience narrative
type Story struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Situation   string    `json:"situation"`
	Task        string    `json:"task"`
	Action      string    `json:"action"`
	Result      string    `json:"result"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// MappedRequirementIDs holds the requirements this story is already mapped to.
	MappedRequirementIDs []uuid.UUID `json:"mapped_requirement_ids,omitempty"`

	// Version is the content-version token computed when the row was read.
	Version string `json:"-"`
}

// Text returns the narrative text used for embedding. Notes are excluded.
func (s *Story) Text() string {
	parts := []string{s.Title, s.Description, s.Situation, s.Task, s.Action, s.Result}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ComputeVersion derives the content-version token from the updated timestamp,
// falling back to the story ID when the timestamp is unset.
func (s *Story) ComputeVersion() string {
	if s.UpdatedAt.IsZero() {
		return s.ID.String()
	}
	return strconv.FormatInt(s.UpdatedAt.UnixNano(), 10)
}

// IsMappedTo reports whether the story is already mapped to the requirement
func (s *Story) IsMappedTo(requirementID uuid.UUID) bool {
	for _, id := range s.MappedRequirementIDs {
		if id == requirementID {
			return true
		}
	}
	return false
}

// MappedStory is a story returned for a requirement together with the time it was mapped
type MappedStory struct {
	Story
	MappedAt time.Time `json:"mapped_at"`
}

// Mapping associates a story with a requirement it evidences
type Mapping struct {
	StoryID       uuid.UUID `json:"story_id"`
	RequirementID uuid.UUID `json:"requirement_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StoryBank is an import document holding STAR stories for one user
type StoryBank struct {
	Stories []StoryInput `json:"stories"`
}

// StoryInput is a story as written in an import document
type StoryInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Situation   string `json:"situation,omitempty"`
	Task        string `json:"task,omitempty"`
	Action      string `json:"action,omitempty"`
	Result      string `json:"result,omitempty"`
	Notes       string `json:"notes,omitempty"`
}
