package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jeffbeard/storylift/internal/types"
)

const maxBodySize = 1 << 20

// handleMatchJob proposes stories for every requirement of a job
func (s *Server) handleMatchJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "jobId")
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req types.MatchJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, &ErrValidation{Field: "userId", Message: "User ID is required"})
		return
	}
	userID := uuid.MustParse(req.UserID)

	matches, err := s.matcher.MatchJob(r.Context(), jobID, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"matches": matches})
}

// handleSuggestions returns the suggestions view for a job
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "jobId")
	if err != nil {
		s.writeError(w, err)
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "user_id", Message: "User ID is required"})
		return
	}

	resp, err := s.matcher.Suggestions(r.Context(), jobID, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if resp.TotalRequirements == 0 {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"suggestions": []types.Suggestion{},
			"message":     "No requirements found for this job",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleMapStory records an approved story/requirement mapping
func (s *Server) handleMapStory(w http.ResponseWriter, r *http.Request) {
	storyID, requirementID, err := decodeMapping(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !s.matcher.MapStory(r.Context(), storyID, requirementID) {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to map story to requirement")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Story mapped to requirement successfully"})
}

// handleUnmapStory removes a story/requirement mapping
func (s *Server) handleUnmapStory(w http.ResponseWriter, r *http.Request) {
	storyID, requirementID, err := decodeMapping(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !s.matcher.UnmapStory(r.Context(), storyID, requirementID) {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to unmap story from requirement")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Story unmapped from requirement successfully"})
}

// handleRequirementStories lists stories mapped to a requirement
func (s *Server) handleRequirementStories(w http.ResponseWriter, r *http.Request) {
	requirementID, err := pathUUID(r, "requirementId")
	if err != nil {
		s.writeError(w, err)
		return
	}

	stories, err := s.matcher.StoriesForRequirement(r.Context(), requirementID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stories)
}

// handleListRequirements lists a job's requirements
func (s *Server) handleListRequirements(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "jobId")
	if err != nil {
		s.writeError(w, err)
		return
	}

	reqs, err := s.matcher.RequirementsForJob(r.Context(), jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, reqs)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "Invalid " + name}
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &ErrValidation{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

func decodeMapping(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, error) {
	var req types.MappingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if err := req.Validate(); err != nil {
		field := "storyId"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "RequirementID" {
			field = "requirementId"
		}
		return uuid.Nil, uuid.Nil, &ErrValidation{Field: field, Message: "Story ID and Requirement ID are required"}
	}
	return uuid.MustParse(req.StoryID), uuid.MustParse(req.RequirementID), nil
}
