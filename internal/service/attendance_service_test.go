package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
)

type attendanceRepoStub struct {
	records []models.AttendanceRecord
}

func (s *attendanceRepoStub) Create(ctx context.Context, record *models.AttendanceRecord) error {
	record.ID = uint(len(s.records) + 1)
	s.records = append(s.records, *record)
	return nil
}

func (s *attendanceRepoStub) Exists(ctx context.Context, studentID, week string) (bool, error) {
	for _, record := range s.records {
		if record.StudentID == studentID && record.Week == week {
			return true, nil
		}
	}
	return false, nil
}

func (s *attendanceRepoStub) List(ctx context.Context) ([]models.AttendanceRecord, error) {
	return s.records, nil
}

func (s *attendanceRepoStub) ListByWeek(ctx context.Context, week string) ([]models.AttendanceRecord, error) {
	matches := make([]models.AttendanceRecord, 0, len(s.records))
	for _, record := range s.records {
		if record.Week == week {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

func TestAttendanceMarkIsIdempotent(t *testing.T) {
	repo := &attendanceRepoStub{}
	svc := NewAttendanceService(repo, testValidator(), nil, testLogger())

	payload := dto.AttendanceMarkRequest{Name: "Ada Obi", StudentID: "BIO/001", Week: "Week 1–2"}

	first, err := svc.Mark(context.Background(), payload)
	require.NoError(t, err)
	require.False(t, first.AlreadyMarked)

	second, err := svc.Mark(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, second.AlreadyMarked)
	require.Len(t, repo.records, 1)

	attended, err := svc.HasAttended(context.Background(), "BIO/001", "Week 1–2")
	require.NoError(t, err)
	require.True(t, attended)
}

func TestAttendanceMarkValidation(t *testing.T) {
	svc := NewAttendanceService(&attendanceRepoStub{}, testValidator(), nil, testLogger())

	_, err := svc.Mark(context.Background(), dto.AttendanceMarkRequest{Name: "  ", StudentID: "BIO/001", Week: "Week 1–2"})
	require.Error(t, err)

	_, err = svc.Mark(context.Background(), dto.AttendanceMarkRequest{Name: "Ada Obi", StudentID: "BIO/001"})
	require.Error(t, err)
}

func TestAttendanceExportCSV(t *testing.T) {
	repo := &attendanceRepoStub{}
	svc := NewAttendanceService(repo, testValidator(), nil, testLogger())

	_, err := svc.Mark(context.Background(), dto.AttendanceMarkRequest{Name: "Ada Obi", StudentID: "BIO/001", Week: "Week 1–2"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &out))

	csv := out.String()
	require.Contains(t, csv, "Timestamp,Matric Number,Name,Week")
	require.Contains(t, csv, "BIO/001")
}
