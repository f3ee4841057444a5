package models

import "time"

// AttendanceRecord marks a student as present for a lecture week.
// At most one record exists per (student, week).
type AttendanceRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID string    `gorm:"size:64;not null;uniqueIndex:idx_attendance_student_week" json:"student_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Week      string    `gorm:"size:64;not null;uniqueIndex:idx_attendance_student_week" json:"week"`
	CreatedAt time.Time `json:"created_at"`
}
