package types

import (
	"github.com/go-playground/validator/v10"
)

// MatchJobRequest is the body of a matching-by-job request.
type MatchJobRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// MappingRequest is the body of a map or unmap request.
type MappingRequest struct {
	StoryID       string `json:"storyId" validate:"required,uuid"`
	RequirementID string `json:"requirementId" validate:"required,uuid"`
}

// Validate validates the MatchJobRequest using the validator.
func (r *MatchJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the MappingRequest using the validator.
func (r *MappingRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
