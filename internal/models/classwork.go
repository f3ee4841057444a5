package models

import (
	"time"

	"gorm.io/datatypes"
)

// ClassworkSubmission records one student's answers for a week's classwork.
// At most one submission exists per (student, week).
type ClassworkSubmission struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StudentID string         `gorm:"size:64;not null;uniqueIndex:idx_classwork_student_week" json:"student_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Week      string         `gorm:"size:64;not null;uniqueIndex:idx_classwork_student_week" json:"week"`
	Answers   datatypes.JSON `gorm:"type:json" json:"answers"`
	CreatedAt time.Time      `json:"created_at"`
}

// ClassworkWindow tracks whether a week's classwork submission window is open.
// A window older than the configured limit is treated as closed on every read,
// whether or not the row has been rewritten.
type ClassworkWindow struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Week     string     `gorm:"size:64;not null;uniqueIndex" json:"week"`
	IsOpen   bool       `gorm:"not null;default:false" json:"is_open"`
	OpenedAt *time.Time `json:"opened_at,omitempty"`
}
