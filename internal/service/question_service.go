package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
)

// ErrInvalidQuestionBank indicates a bulk upload payload that failed
// validation. The existing bank is left untouched.
var ErrInvalidQuestionBank = errors.New("invalid question bank payload")

// questionBankSchema validates the admin bulk upload wholesale; any violation
// rejects the entire payload so a partial bank can never land.
const questionBankSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["id", "question", "options", "correct_answer"],
    "properties": {
      "id": {"type": ["string", "integer"]},
      "question": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "items": {"type": "string"},
        "minItems": 4,
        "maxItems": 4
      },
      "correct_answer": {"enum": ["A", "B", "C", "D"]}
    }
  }
}`

// QuestionService manages the multiple-choice test bank.
type QuestionService interface {
	// BulkUpload replaces the whole bank with the uploaded JSON array.
	BulkUpload(ctx context.Context, raw []byte) (dto.QuestionBankUploadResponse, error)
	List(ctx context.Context) ([]dto.QuestionResponse, error)
	Count(ctx context.Context) (int64, error)
}

type questionService struct {
	repo   repository.QuestionRepository
	schema *jsonschema.Schema
	logger zerolog.Logger
}

// NewQuestionService builds a new question service.
func NewQuestionService(repo repository.QuestionRepository, logger zerolog.Logger) QuestionService {
	schema := jsonschema.MustCompileString("question_bank.json", questionBankSchema)

	return &questionService{
		repo:   repo,
		schema: schema,
		logger: logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) BulkUpload(ctx context.Context, raw []byte) (dto.QuestionBankUploadResponse, error) {
	var payload interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return dto.QuestionBankUploadResponse{}, fmt.Errorf("%w: %v", ErrInvalidQuestionBank, err)
	}

	if err := s.schema.Validate(payload); err != nil {
		return dto.QuestionBankUploadResponse{}, fmt.Errorf("%w: %v", ErrInvalidQuestionBank, err)
	}

	items, ok := payload.([]interface{})
	if !ok {
		return dto.QuestionBankUploadResponse{}, fmt.Errorf("%w: expected a question array", ErrInvalidQuestionBank)
	}

	questions := make([]models.Question, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		entry := item.(map[string]interface{})
		qid := fmt.Sprint(entry["id"])
		if _, dup := seen[qid]; dup {
			return dto.QuestionBankUploadResponse{}, fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuestionBank, qid)
		}
		seen[qid] = struct{}{}

		options, err := json.Marshal(entry["options"])
		if err != nil {
			return dto.QuestionBankUploadResponse{}, fmt.Errorf("%w: %v", ErrInvalidQuestionBank, err)
		}

		questions = append(questions, models.Question{
			QID:           qid,
			Text:          entry["question"].(string),
			Options:       options,
			CorrectAnswer: entry["correct_answer"].(string),
		})
	}

	if err := s.repo.ReplaceAll(ctx, questions); err != nil {
		return dto.QuestionBankUploadResponse{}, err
	}

	s.logger.Info().Int("questions", len(questions)).Msg("question bank replaced")

	return dto.QuestionBankUploadResponse{Replaced: len(questions)}, nil
}

func (s *questionService) List(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
