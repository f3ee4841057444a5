package dto

import (
	"time"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// ExamLoginRequest describes a student entering the test.
type ExamLoginRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	StudentID string `json:"student_id" validate:"required,min=2"`
}

// ExamSessionResponse is returned on login and on every status check.
type ExamSessionResponse struct {
	StudentID        string                    `json:"student_id"`
	Resumed          bool                      `json:"resumed"`
	RemainingSeconds int                       `json:"remaining_seconds"`
	Answers          map[string]string         `json:"answers"`
	Questions        []StudentQuestionResponse `json:"questions,omitempty"`
}

// ExamAnswerRequest persists one answer choice, write-through.
type ExamAnswerRequest struct {
	StudentID  string `json:"student_id" validate:"required,min=2"`
	QuestionID string `json:"question_id" validate:"required"`
	Choice     string `json:"choice" validate:"required,oneof=A B C D"`
}

// ExamSubmitRequest finishes an attempt. Force skips the incomplete-attempt
// confirmation and submits whatever answers are stored.
type ExamSubmitRequest struct {
	StudentID string `json:"student_id" validate:"required,min=2"`
	Force     bool   `json:"force"`
}

// ExamSubmitConfirmation is returned when a submit needs explicit confirmation.
type ExamSubmitConfirmation struct {
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`
}

// ExamResultResponse is the serialized representation of a terminal result.
type ExamResultResponse struct {
	ID               uint      `json:"id"`
	StudentID        string    `json:"student_id"`
	Name             string    `json:"name"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	Percentage       float64   `json:"percentage"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	AutoSubmitted    bool      `json:"auto_submitted"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewExamResultResponse converts a model into a DTO.
func NewExamResultResponse(model models.ExamResult) ExamResultResponse {
	return ExamResultResponse{
		ID:               model.ID,
		StudentID:        model.StudentID,
		Name:             model.Name,
		Score:            model.Score,
		TotalQuestions:   model.TotalQuestions,
		Percentage:       model.Percentage,
		TimeTakenSeconds: model.TimeTakenSeconds,
		AutoSubmitted:    model.AutoSubmitted,
		CreatedAt:        model.CreatedAt,
	}
}

// NewExamResultResponseSlice converts a slice of models into DTOs.
func NewExamResultResponseSlice(results []models.ExamResult) []ExamResultResponse {
	responses := make([]ExamResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewExamResultResponse(result))
	}

	return responses
}

// ExamConfigRequest updates the admin test configuration.
type ExamConfigRequest struct {
	DurationMinutes int `json:"duration_minutes" validate:"required,min=1,max=480"`
}

// ExamConfigResponse reports the duration applied to newly started attempts.
type ExamConfigResponse struct {
	DurationMinutes int `json:"duration_minutes"`
}

// ExamStatsResponse aggregates all terminal results for the admin dashboard.
type ExamStatsResponse struct {
	TotalAttempts     int     `json:"total_attempts"`
	AverageScore      float64 `json:"average_score"`
	AveragePercentage float64 `json:"average_percentage"`
	HighestScore      int     `json:"highest_score"`
	LowestScore       int     `json:"lowest_score"`
	AutoSubmitted     int     `json:"auto_submitted"`
}
