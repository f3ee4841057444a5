package dto

import (
	"time"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// SeminarUploadRequest accompanies the multipart seminar file upload.
type SeminarUploadRequest struct {
	Name      string `form:"name" json:"name" validate:"required,min=2"`
	StudentID string `form:"student_id" json:"student_id" validate:"required,min=2"`
}

// SeminarSubmissionResponse is the serialized representation of one submission.
type SeminarSubmissionResponse struct {
	ID        uint      `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Filename  string    `json:"filename"`
	FileURL   string    `json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSeminarSubmissionResponse converts a model into a DTO.
func NewSeminarSubmissionResponse(model models.SeminarSubmission) SeminarSubmissionResponse {
	return SeminarSubmissionResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		Name:      model.Name,
		Filename:  model.Filename,
		FileURL:   model.FileURL,
		CreatedAt: model.CreatedAt,
	}
}

// NewSeminarSubmissionResponseSlice converts a slice of models into DTOs.
func NewSeminarSubmissionResponseSlice(submissions []models.SeminarSubmission) []SeminarSubmissionResponse {
	responses := make([]SeminarSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSeminarSubmissionResponse(submission))
	}

	return responses
}
