package dto

// PortalLoginRequest is the password-only course portal admin login.
type PortalLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// ExamAdminLoginRequest is the username+password test runner admin login.
type ExamAdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the issued admin session token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// CredentialUpdateRequest replaces the stored admin credential record.
type CredentialUpdateRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}
