package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// ClassworkSubmissionRepository defines persistence operations for classwork submissions.
type ClassworkSubmissionRepository interface {
	Create(ctx context.Context, submission *models.ClassworkSubmission) error
	Exists(ctx context.Context, studentID, week string) (bool, error)
	List(ctx context.Context) ([]models.ClassworkSubmission, error)
}

// ClassworkWindowRepository defines persistence operations for per-week submission windows.
type ClassworkWindowRepository interface {
	GetByWeek(ctx context.Context, week string) (models.ClassworkWindow, error)
	Upsert(ctx context.Context, window *models.ClassworkWindow) error
	ListOpen(ctx context.Context) ([]models.ClassworkWindow, error)
}

type classworkSubmissionRepository struct {
	db *gorm.DB
}

// NewClassworkSubmissionRepository instantiates a GORM-backed repository.
func NewClassworkSubmissionRepository(db *gorm.DB) ClassworkSubmissionRepository {
	return &classworkSubmissionRepository{db: db}
}

func (r *classworkSubmissionRepository) Create(ctx context.Context, submission *models.ClassworkSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *classworkSubmissionRepository) Exists(ctx context.Context, studentID, week string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassworkSubmission{}).
		Where("student_id = ? AND week = ?", studentID, week).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *classworkSubmissionRepository) List(ctx context.Context) ([]models.ClassworkSubmission, error) {
	var submissions []models.ClassworkSubmission
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

type classworkWindowRepository struct {
	db *gorm.DB
}

// NewClassworkWindowRepository instantiates a GORM-backed repository.
func NewClassworkWindowRepository(db *gorm.DB) ClassworkWindowRepository {
	return &classworkWindowRepository{db: db}
}

func (r *classworkWindowRepository) GetByWeek(ctx context.Context, week string) (models.ClassworkWindow, error) {
	var window models.ClassworkWindow
	if err := r.db.WithContext(ctx).First(&window, "week = ?", week).Error; err != nil {
		return models.ClassworkWindow{}, err
	}

	return window, nil
}

func (r *classworkWindowRepository) Upsert(ctx context.Context, window *models.ClassworkWindow) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_open", "opened_at"}),
	}).Create(window).Error
}

func (r *classworkWindowRepository) ListOpen(ctx context.Context) ([]models.ClassworkWindow, error) {
	var windows []models.ClassworkWindow
	if err := r.db.WithContext(ctx).Where("is_open = ?", true).Find(&windows).Error; err != nil {
		return nil, err
	}

	return windows, nil
}
