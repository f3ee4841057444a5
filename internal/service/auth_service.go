package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
)

// ErrInvalidCredentials indicates a failed admin login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues admin session tokens against the stored credential record.
type AuthService interface {
	// PortalLogin is the password-only course portal admin login.
	PortalLogin(ctx context.Context, payload dto.PortalLoginRequest) (dto.TokenResponse, error)
	// ExamLogin is the username+password test runner admin login.
	ExamLogin(ctx context.Context, payload dto.ExamAdminLoginRequest) (dto.TokenResponse, error)
	UpdateCredentials(ctx context.Context, payload dto.CredentialUpdateRequest) error
	// SeedCredential creates the default credential record when none exists.
	SeedCredential(ctx context.Context) error
}

type authService struct {
	credentials     repository.CredentialRepository
	secret          string
	ttl             time.Duration
	defaultUsername string
	defaultPassword string
	validator       *validator.Validate
	logger          zerolog.Logger
	now             func() time.Time
}

// NewAuthService builds a new auth service.
func NewAuthService(credentials repository.CredentialRepository, secret string, ttl time.Duration, defaultUsername, defaultPassword string, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		credentials:     credentials,
		secret:          secret,
		ttl:             ttl,
		defaultUsername: defaultUsername,
		defaultPassword: defaultPassword,
		validator:       validate,
		logger:          logger.With().Str("component", "auth_service").Logger(),
		now:             time.Now,
	}
}

func (s *authService) SeedCredential(ctx context.Context) error {
	if _, err := s.credentials.Get(ctx); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	credential := models.AdminCredential{
		Username: s.defaultUsername,
		Password: s.defaultPassword,
	}
	if err := s.credentials.Upsert(ctx, &credential); err != nil {
		return err
	}

	s.logger.Info().Str("username", credential.Username).Msg("default admin credential seeded")
	return nil
}

func (s *authService) PortalLogin(ctx context.Context, payload dto.PortalLoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	credential, err := s.load(ctx)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	if !secureEqual(payload.Password, credential.Password) {
		s.logger.Warn().Msg("portal admin login rejected")
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	return s.issue(credential.Username)
}

func (s *authService) ExamLogin(ctx context.Context, payload dto.ExamAdminLoginRequest) (dto.TokenResponse, error) {
	payload.Username = strings.TrimSpace(payload.Username)

	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	credential, err := s.load(ctx)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	if !secureEqual(payload.Username, credential.Username) || !secureEqual(payload.Password, credential.Password) {
		s.logger.Warn().Str("username", payload.Username).Msg("exam admin login rejected")
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	return s.issue(credential.Username)
}

func (s *authService) UpdateCredentials(ctx context.Context, payload dto.CredentialUpdateRequest) error {
	payload.Username = strings.TrimSpace(payload.Username)

	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	credential := models.AdminCredential{
		Username: payload.Username,
		Password: payload.Password,
	}
	if err := s.credentials.Upsert(ctx, &credential); err != nil {
		return err
	}

	s.logger.Info().Str("username", credential.Username).Msg("admin credential updated")
	return nil
}

// load returns the stored credential, falling back to the configured default
// when the record has not been seeded yet.
func (s *authService) load(ctx context.Context) (models.AdminCredential, error) {
	credential, err := s.credentials.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AdminCredential{Username: s.defaultUsername, Password: s.defaultPassword}, nil
		}
		return models.AdminCredential{}, err
	}

	return credential, nil
}

func (s *authService) issue(subject string) (dto.TokenResponse, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return dto.TokenResponse{}, err
	}

	return dto.TokenResponse{Token: token, ExpiresIn: int(s.ttl.Seconds())}, nil
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
