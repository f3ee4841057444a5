package models

import (
	"strings"
	"time"
)

// LectureContent holds the editable material for one lecture week.
// Classwork stores the question list semicolon-delimited, matching the
// format instructors type into the admin panel.
type LectureContent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Week       string    `gorm:"size:64;not null;uniqueIndex" json:"week"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	Topic      string    `gorm:"type:text" json:"topic"`
	Brief      string    `gorm:"type:text" json:"brief"`
	Assignment string    `gorm:"type:text" json:"assignment"`
	Classwork  string    `gorm:"type:text" json:"classwork"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ClassworkQuestions splits the stored classwork field into individual questions.
func (l LectureContent) ClassworkQuestions() []string {
	parts := strings.Split(l.Classwork, ";")
	questions := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			questions = append(questions, trimmed)
		}
	}
	return questions
}
