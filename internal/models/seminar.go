package models

import "time"

// SeminarSubmission records a student's uploaded seminar slides.
// At most one submission exists per student.
type SeminarSubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID string    `gorm:"size:64;not null;uniqueIndex" json:"student_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	FileURL   string    `gorm:"size:512" json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}
