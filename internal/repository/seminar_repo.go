package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// SeminarRepository defines persistence operations for seminar submissions.
type SeminarRepository interface {
	Create(ctx context.Context, submission *models.SeminarSubmission) error
	Exists(ctx context.Context, studentID string) (bool, error)
	List(ctx context.Context) ([]models.SeminarSubmission, error)
}

type seminarRepository struct {
	db *gorm.DB
}

// NewSeminarRepository instantiates a GORM-backed repository.
func NewSeminarRepository(db *gorm.DB) SeminarRepository {
	return &seminarRepository{db: db}
}

func (r *seminarRepository) Create(ctx context.Context, submission *models.SeminarSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *seminarRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SeminarSubmission{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *seminarRepository) List(ctx context.Context) ([]models.SeminarSubmission, error) {
	var submissions []models.SeminarSubmission
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
