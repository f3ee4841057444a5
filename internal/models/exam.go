package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ExamProgress is the live record of an in-flight test attempt. The absolute
// StartTime is what makes the countdown survive reloads and process restarts;
// remaining time is always derived from it, never from an in-memory counter.
// The row is deleted when the attempt reaches a terminal state.
type ExamProgress struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	StudentID       string         `gorm:"size:64;not null;uniqueIndex" json:"student_id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	StartTime       time.Time      `gorm:"not null" json:"start_time"`
	Answers         datatypes.JSON `gorm:"type:json" json:"answers"`
	Started         bool           `gorm:"not null;default:true" json:"started"`
	DurationSeconds int            `gorm:"not null" json:"duration_seconds"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// AnswerMap decodes the persisted question→choice mapping.
func (p ExamProgress) AnswerMap() map[string]string {
	answers := map[string]string{}
	if len(p.Answers) > 0 {
		_ = json.Unmarshal(p.Answers, &answers)
	}
	return answers
}

// ExamSetting is the single-row admin test configuration. Attempts copy the
// duration into their progress record on start, so changing it never shortens
// or extends an attempt already in flight.
type ExamSetting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExamResult is the terminal record of a completed attempt. Its existence for
// a student identifier permanently blocks further attempts.
type ExamResult struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StudentID        string    `gorm:"size:64;not null;uniqueIndex" json:"student_id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Score            int       `gorm:"not null" json:"score"`
	TotalQuestions   int       `gorm:"not null" json:"total_questions"`
	Percentage       float64   `gorm:"not null" json:"percentage"`
	TimeTakenSeconds int       `gorm:"not null" json:"time_taken_seconds"`
	AutoSubmitted    bool      `gorm:"not null;default:false" json:"auto_submitted"`
	CreatedAt        time.Time `json:"created_at"`
}
