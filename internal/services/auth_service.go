package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

// AuthStore abstracts user persistence for registration and login.
type AuthStore interface {
	FindUserByEmail(email string) (*models.User, error)
	AddUser(u *models.User) (*models.User, error)
}

// TokenSigner mints an access token for an authenticated user.
type TokenSigner func(uid int64, role models.Role, email string, ttl time.Duration) (string, error)

// AuthResult carries the signed token plus the identifiers the frontend needs.
type AuthResult struct {
	Token  string      `json:"token"`
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
}

// AuthService handles account registration and login.
type AuthService struct {
	store     AuthStore
	now       func() time.Time
	signToken TokenSigner
	tokenTTL  time.Duration
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		signToken: signer,
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates a student account. Staff roles are provisioned out of
// band, never through self-registration.
func (s *AuthService) Register(email, password, fullName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.store.AddUser(&models.User{
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		PassHash:  hash,
		Role:      models.RoleStudent,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login verifies credentials and mints a token.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)) != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(user.ID, user.Role, user.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: user.ID, Role: user.Role}, nil
}
