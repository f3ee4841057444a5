package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// ExamProgressRepository defines persistence operations for in-flight attempts.
type ExamProgressRepository interface {
	GetByStudent(ctx context.Context, studentID string) (models.ExamProgress, error)
	Save(ctx context.Context, progress *models.ExamProgress) error
	Delete(ctx context.Context, studentID string) error
}

// ExamResultRepository defines persistence operations for terminal attempt records.
type ExamResultRepository interface {
	Create(ctx context.Context, result *models.ExamResult) error
	ExistsByStudent(ctx context.Context, studentID string) (bool, error)
	List(ctx context.Context) ([]models.ExamResult, error)
}

// ExamSettingRepository defines persistence operations for the single-row
// admin test configuration.
type ExamSettingRepository interface {
	Get(ctx context.Context) (models.ExamSetting, error)
	Upsert(ctx context.Context, setting *models.ExamSetting) error
}

type examProgressRepository struct {
	db *gorm.DB
}

// NewExamProgressRepository instantiates a GORM-backed repository.
func NewExamProgressRepository(db *gorm.DB) ExamProgressRepository {
	return &examProgressRepository{db: db}
}

func (r *examProgressRepository) GetByStudent(ctx context.Context, studentID string) (models.ExamProgress, error) {
	var progress models.ExamProgress
	if err := r.db.WithContext(ctx).First(&progress, "student_id = ?", studentID).Error; err != nil {
		return models.ExamProgress{}, err
	}

	return progress, nil
}

func (r *examProgressRepository) Save(ctx context.Context, progress *models.ExamProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "answers", "started", "duration_seconds", "updated_at"}),
	}).Create(progress).Error
}

func (r *examProgressRepository) Delete(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.ExamProgress{}).Error
}

type examResultRepository struct {
	db *gorm.DB
}

// NewExamResultRepository instantiates a GORM-backed repository.
func NewExamResultRepository(db *gorm.DB) ExamResultRepository {
	return &examResultRepository{db: db}
}

func (r *examResultRepository) Create(ctx context.Context, result *models.ExamResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *examResultRepository) ExistsByStudent(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ExamResult{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *examResultRepository) List(ctx context.Context) ([]models.ExamResult, error) {
	var results []models.ExamResult
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

type examSettingRepository struct {
	db *gorm.DB
}

// NewExamSettingRepository instantiates a GORM-backed repository.
func NewExamSettingRepository(db *gorm.DB) ExamSettingRepository {
	return &examSettingRepository{db: db}
}

func (r *examSettingRepository) Get(ctx context.Context) (models.ExamSetting, error) {
	var setting models.ExamSetting
	if err := r.db.WithContext(ctx).First(&setting).Error; err != nil {
		return models.ExamSetting{}, err
	}

	return setting, nil
}

func (r *examSettingRepository) Upsert(ctx context.Context, setting *models.ExamSetting) error {
	existing, err := r.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(setting).Error
		}
		return err
	}

	setting.ID = existing.ID
	return r.db.WithContext(ctx).Save(setting).Error
}
