// Package types provides type definitions for structured data used throughout the storylift system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Requirement type constants
const (
	RequirementTypeRequirement   = "requirement"
	RequirementTypeQualification = "qualification"
)

// Requirement is a must-have or preferred criterion extracted from a job posting
type Requirement struct {
	ID               uuid.UUID `json:"id"`
	JobDescriptionID uuid.UUID `json:"job_description_id"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Version is the content-version token computed when the row was read.
	Version string `json:"-"`
}

// Text returns the text that represents the requirement for embedding.
func (r *Requirement) Text() string {
	return strings.TrimSpace(r.Title + " " + r.Description)
}

// ComputeVersion derives the content-version token from the last-modified
// marker and the content length. An edit changes at least one of them.
func (r *Requirement) ComputeVersion() string {
	return fmt.Sprintf("%d-%d", r.UpdatedAt.UnixNano(), len(r.Title)+len(r.Description))
}

// ValidRequirementType reports whether t is a known requirement type
func ValidRequirementType(t string) bool {
	switch t {
	case RequirementTypeRequirement, RequirementTypeQualification:
		return true
	default:
		return false
	}
}
