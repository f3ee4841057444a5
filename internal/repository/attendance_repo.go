package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// AttendanceRepository defines persistence operations for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Exists(ctx context.Context, studentID, week string) (bool, error)
	List(ctx context.Context) ([]models.AttendanceRecord, error)
	ListByWeek(ctx context.Context, week string) ([]models.AttendanceRecord, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) Exists(ctx context.Context, studentID, week string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("student_id = ? AND week = ?", studentID, week).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *attendanceRepository) List(ctx context.Context) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) ListByWeek(ctx context.Context, week string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := r.db.WithContext(ctx).Where("week = ?", week).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
