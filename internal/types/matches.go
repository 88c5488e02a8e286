package types

import "github.com/google/uuid"

// CandidateMatch is a story proposed for a requirement. It is derived per
// request and never stored.
type CandidateMatch struct {
	StoryID       uuid.UUID `json:"story_id"`
	Title         string    `json:"title"`
	Preview       string    `json:"situation"`
	Score         int       `json:"score"` // 0-100
	AlreadyMapped bool      `json:"is_already_mapped"`
}

// RequirementMatch groups the candidates proposed for one requirement
type RequirementMatch struct {
	RequirementID          uuid.UUID        `json:"requirement_id"`
	RequirementTitle       string           `json:"requirement_title"`
	RequirementDescription string           `json:"requirement_description"`
	SuggestedStories       []CandidateMatch `json:"suggested_stories"`
}

// SuggestionsResponse is the per-job view of the matches
type SuggestionsResponse struct {
	JobID                       uuid.UUID    `json:"job_id"`
	TotalRequirements           int          `json:"total_requirements"`
	RequirementsWithSuggestions int          `json:"requirements_with_suggestions"`
	Suggestions                 []Suggestion `json:"suggestions"`
}

// Suggestion pairs a requirement with its recommended stories
type Suggestion struct {
	Requirement        SuggestedRequirement `json:"requirement"`
	RecommendedStories []RecommendedStory   `json:"recommended_stories"`
}

// SuggestedRequirement is the requirement summary in a suggestion
type SuggestedRequirement struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// RecommendedStory is a candidate story in a suggestion
type RecommendedStory struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Preview       string    `json:"preview"`
	MatchScore    int       `json:"match_score"`
	AlreadyMapped bool      `json:"already_mapped"`
}

// NewSuggestionsResponse converts matches into the suggestions view
func NewSuggestionsResponse(jobID uuid.UUID, totalRequirements int, matches []RequirementMatch) *SuggestionsResponse {
	resp := &SuggestionsResponse{
		JobID:                       jobID,
		TotalRequirements:           totalRequirements,
		RequirementsWithSuggestions: len(matches),
		Suggestions:                 make([]Suggestion, 0, len(matches)),
	}

	for _, m := range matches {
		stories := make([]RecommendedStory, 0, len(m.SuggestedStories))
		for _, c := range m.SuggestedStories {
			stories = append(stories, RecommendedStory{
				ID:            c.StoryID,
				Title:         c.Title,
				Preview:       c.Preview,
				MatchScore:    c.Score,
				AlreadyMapped: c.AlreadyMapped,
			})
		}
		resp.Suggestions = append(resp.Suggestions, Suggestion{
			Requirement: SuggestedRequirement{
				ID:          m.RequirementID,
				Title:       m.RequirementTitle,
				Description: m.RequirementDescription,
			},
			RecommendedStories: stories,
		})
	}

	return resp
}
