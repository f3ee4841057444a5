package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/handler"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
)

type mockAuthService struct {
	token dto.TokenResponse
	err   error
}

func (m *mockAuthService) PortalLogin(_ context.Context, payload dto.PortalLoginRequest) (dto.TokenResponse, error) {
	return m.token, m.err
}

func (m *mockAuthService) ExamLogin(_ context.Context, payload dto.ExamAdminLoginRequest) (dto.TokenResponse, error) {
	return m.token, m.err
}

func (m *mockAuthService) UpdateCredentials(_ context.Context, payload dto.CredentialUpdateRequest) error {
	return m.err
}

func (m *mockAuthService) SeedCredential(_ context.Context) error {
	return nil
}

func authApp(svc *mockAuthService) *fiber.App {
	app := fiber.New()
	h := handler.NewAuthHandler(svc, testLogger())
	h.Register(app.Group("/api/v1/auth"))
	h.RegisterAdmin(app.Group("/api/admin"))
	return app
}

func TestAuthHandler_PortalLogin(t *testing.T) {
	svc := &mockAuthService{token: dto.TokenResponse{Token: "jwt", ExpiresIn: 3600}}
	app := authApp(svc)

	body, err := json.Marshal(dto.PortalLoginRequest{Password: "bimpe2025class"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/portal", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.TokenResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "jwt", response.Data.Token)
}

func TestAuthHandler_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{err: service.ErrInvalidCredentials}
	app := authApp(svc)

	body, err := json.Marshal(dto.ExamAdminLoginRequest{Username: "admin", Password: "wrong"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/exam", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
