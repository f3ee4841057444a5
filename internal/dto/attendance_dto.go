package dto

import (
	"time"

	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

// AttendanceMarkRequest describes the payload for marking weekly attendance.
type AttendanceMarkRequest struct {
	Name      string `form:"name" json:"name" validate:"required,min=2"`
	StudentID string `form:"student_id" json:"student_id" validate:"required,min=2"`
	Week      string `form:"week" json:"week" validate:"required"`
}

// AttendanceMarkResponse reports the outcome of an attendance mark.
// AlreadyMarked means a record already existed; access is still granted.
type AttendanceMarkResponse struct {
	StudentID     string `json:"student_id"`
	Week          string `json:"week"`
	AlreadyMarked bool   `json:"already_marked"`
}

// AttendanceRecordResponse is the serialized representation of one record.
type AttendanceRecordResponse struct {
	ID        uint      `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Week      string    `json:"week"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttendanceRecordResponse converts a model into a DTO.
func NewAttendanceRecordResponse(model models.AttendanceRecord) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		Name:      model.Name,
		Week:      model.Week,
		CreatedAt: model.CreatedAt,
	}
}

// NewAttendanceRecordResponseSlice converts a slice of models into DTOs.
func NewAttendanceRecordResponseSlice(records []models.AttendanceRecord) []AttendanceRecordResponse {
	responses := make([]AttendanceRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceRecordResponse(record))
	}

	return responses
}
