package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// LectureRepository defines persistence operations for lecture content.
type LectureRepository interface {
	List(ctx context.Context) ([]models.LectureContent, error)
	GetByWeek(ctx context.Context, week string) (models.LectureContent, error)
	UpsertByWeek(ctx context.Context, lecture *models.LectureContent) error
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, lectures []models.LectureContent) error
}

type lectureRepository struct {
	db *gorm.DB
}

// NewLectureRepository instantiates a GORM-backed repository.
func NewLectureRepository(db *gorm.DB) LectureRepository {
	return &lectureRepository{db: db}
}

func (r *lectureRepository) List(ctx context.Context) ([]models.LectureContent, error) {
	var lectures []models.LectureContent
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&lectures).Error; err != nil {
		return nil, err
	}

	return lectures, nil
}

func (r *lectureRepository) GetByWeek(ctx context.Context, week string) (models.LectureContent, error) {
	var lecture models.LectureContent
	if err := r.db.WithContext(ctx).First(&lecture, "week = ?", week).Error; err != nil {
		return models.LectureContent{}, err
	}

	return lecture, nil
}

func (r *lectureRepository) UpsertByWeek(ctx context.Context, lecture *models.LectureContent) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{"topic", "brief", "assignment", "classwork", "updated_at"}),
	}).Create(lecture).Error
}

func (r *lectureRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LectureContent{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *lectureRepository) CreateBatch(ctx context.Context, lectures []models.LectureContent) error {
	if len(lectures) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&lectures).Error
}
