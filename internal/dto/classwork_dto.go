package dto

import (
	"encoding/json"
	"time"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// ClassworkSubmitRequest describes a student's classwork answers for a week.
type ClassworkSubmitRequest struct {
	Name      string   `json:"name" validate:"required,min=2"`
	StudentID string   `json:"student_id" validate:"required,min=2"`
	Week      string   `json:"week" validate:"required"`
	Answers   []string `json:"answers" validate:"required,min=1,dive,max=2000"`
}

// ClassworkSubmitResponse reports the outcome of a classwork submission.
type ClassworkSubmitResponse struct {
	StudentID        string `json:"student_id"`
	Week             string `json:"week"`
	AlreadySubmitted bool   `json:"already_submitted"`
}

// ClassworkSubmissionResponse is the serialized representation of one submission.
type ClassworkSubmissionResponse struct {
	ID        uint      `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Week      string    `json:"week"`
	Answers   []string  `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClassworkSubmissionResponse converts a model into a DTO.
func NewClassworkSubmissionResponse(model models.ClassworkSubmission) ClassworkSubmissionResponse {
	var answers []string
	_ = json.Unmarshal(model.Answers, &answers)

	return ClassworkSubmissionResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		Name:      model.Name,
		Week:      model.Week,
		Answers:   answers,
		CreatedAt: model.CreatedAt,
	}
}

// NewClassworkSubmissionResponseSlice converts a slice of models into DTOs.
func NewClassworkSubmissionResponseSlice(submissions []models.ClassworkSubmission) []ClassworkSubmissionResponse {
	responses := make([]ClassworkSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewClassworkSubmissionResponse(submission))
	}

	return responses
}
