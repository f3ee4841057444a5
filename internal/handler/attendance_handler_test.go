package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/handler"
)

type mockAttendanceService struct {
	response dto.AttendanceMarkResponse
	err      error
	records  []dto.AttendanceRecordResponse
}

func (m *mockAttendanceService) Mark(_ context.Context, payload dto.AttendanceMarkRequest) (dto.AttendanceMarkResponse, error) {
	if m.err != nil {
		return dto.AttendanceMarkResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAttendanceService) HasAttended(_ context.Context, studentID, week string) (bool, error) {
	return false, nil
}

func (m *mockAttendanceService) List(_ context.Context) ([]dto.AttendanceRecordResponse, error) {
	return m.records, nil
}

func (m *mockAttendanceService) ExportCSV(_ context.Context, w io.Writer) error {
	_, err := w.Write([]byte("Timestamp,Matric Number,Name,Week\n"))
	return err
}

func attendanceApp(svc *mockAttendanceService) *fiber.App {
	app := fiber.New()
	h := handler.NewAttendanceHandler(svc, testLogger())
	h.Register(app.Group("/api/v1/portal"))
	h.RegisterAdmin(app.Group("/api/admin"))
	return app
}

func TestAttendanceHandler_Mark(t *testing.T) {
	svc := &mockAttendanceService{response: dto.AttendanceMarkResponse{StudentID: "BIO/001", Week: "Week 1–2"}}
	app := attendanceApp(svc)

	body, err := json.Marshal(dto.AttendanceMarkRequest{Name: "Ada Obi", StudentID: "BIO/001", Week: "Week 1–2"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/portal/attendance", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                       `json:"success"`
		Data    dto.AttendanceMarkResponse `json:"data"`
		Message string                     `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "attendance marked", response.Message)
}

func TestAttendanceHandler_DuplicateIsWarningNotError(t *testing.T) {
	svc := &mockAttendanceService{response: dto.AttendanceMarkResponse{StudentID: "BIO/001", Week: "Week 1–2", AlreadyMarked: true}}
	app := attendanceApp(svc)

	body, err := json.Marshal(dto.AttendanceMarkRequest{Name: "Ada Obi", StudentID: "BIO/001", Week: "Week 1–2"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/portal/attendance", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                       `json:"success"`
		Data    dto.AttendanceMarkResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.True(t, response.Data.AlreadyMarked)
}

func TestAttendanceHandler_AdminCSVExport(t *testing.T) {
	app := attendanceApp(&mockAttendanceService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/attendance?format=csv", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attendance_")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Matric Number")
}
