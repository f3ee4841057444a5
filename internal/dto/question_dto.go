package dto

import (
	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// QuestionUpload is one element of the admin bulk upload payload.
type QuestionUpload struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuestionBankUploadResponse reports the outcome of a bulk upload.
type QuestionBankUploadResponse struct {
	Replaced int `json:"replaced"`
}

// QuestionResponse is the admin view of one question, answer included.
type QuestionResponse struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// StudentQuestionResponse is the student view, without the correct answer.
type StudentQuestionResponse struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// NewQuestionResponse converts a model into the admin DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:            model.QID,
		Question:      model.Text,
		Options:       model.OptionList(),
		CorrectAnswer: model.CorrectAnswer,
	}
}

// NewQuestionResponseSlice converts a slice of models into admin DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}

// NewStudentQuestionResponseSlice converts models into answer-free student DTOs.
func NewStudentQuestionResponseSlice(questions []models.Question) []StudentQuestionResponse {
	responses := make([]StudentQuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, StudentQuestionResponse{
			ID:       question.QID,
			Question: question.Text,
			Options:  question.OptionList(),
		})
	}

	return responses
}
