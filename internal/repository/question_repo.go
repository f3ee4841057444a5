package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// QuestionRepository defines persistence operations for the test question bank.
type QuestionRepository interface {
	List(ctx context.Context) ([]models.Question, error)
	Count(ctx context.Context) (int64, error)
	// ReplaceAll swaps the whole bank atomically; either every row lands or none do.
	ReplaceAll(ctx context.Context, questions []models.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates a GORM-backed repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *questionRepository) ReplaceAll(ctx context.Context, questions []models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}
