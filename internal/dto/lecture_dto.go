package dto

import (
	"time"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// WeekResponse is one entry of the ordered week list.
type WeekResponse struct {
	Week  string `json:"week"`
	Topic string `json:"topic"`
}

// NewWeekResponseSlice converts lecture rows into the week list.
func NewWeekResponseSlice(lectures []models.LectureContent) []WeekResponse {
	weeks := make([]WeekResponse, 0, len(lectures))
	for _, lecture := range lectures {
		weeks = append(weeks, WeekResponse{Week: lecture.Week, Topic: lecture.Topic})
	}

	return weeks
}

// LectureUpdateRequest describes the admin payload for editing a lecture.
type LectureUpdateRequest struct {
	Topic      *string `form:"topic" json:"topic"`
	Brief      *string `form:"brief" json:"brief"`
	Assignment *string `form:"assignment" json:"assignment"`
	// Classwork carries the question list, semicolon-delimited.
	Classwork *string `form:"classwork" json:"classwork"`
}

// ClassworkWindowState reports the gate for a week's classwork submissions.
type ClassworkWindowState struct {
	Week             string `json:"week"`
	IsOpen           bool   `json:"is_open"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// LectureResponse is the attendance-gated lecture view returned to students.
type LectureResponse struct {
	Week            string               `json:"week"`
	Topic           string               `json:"topic"`
	Brief           string               `json:"brief"`
	Assignment      string               `json:"assignment"`
	Classwork       []string             `json:"classwork"`
	ModuleAvailable bool                 `json:"module_available"`
	Window          ClassworkWindowState `json:"classwork_window"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewLectureResponse converts a model into the student-facing DTO.
func NewLectureResponse(model models.LectureContent, moduleAvailable bool, state ClassworkWindowState) LectureResponse {
	return LectureResponse{
		Week:            model.Week,
		Topic:           model.Topic,
		Brief:           model.Brief,
		Assignment:      model.Assignment,
		Classwork:       model.ClassworkQuestions(),
		ModuleAvailable: moduleAvailable,
		Window:          state,
		UpdatedAt:       model.UpdatedAt,
	}
}

// SessionResponse reports the global lecture session clock.
type SessionResponse struct {
	RemainingSeconds  int  `json:"remaining_seconds"`
	ClassworkRevealed bool `json:"classwork_revealed"`
	LectureOver       bool `json:"lecture_over"`
	// MinutesUntilReveal is how long until the classwork segment opens, 0 once revealed.
	MinutesUntilReveal int `json:"minutes_until_reveal"`
}
