package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

type stubAuthStore struct {
	users map[string]*models.User
}

func newStubAuthStore() *stubAuthStore {
	return &stubAuthStore{users: map[string]*models.User{}}
}

func (s *stubAuthStore) FindUserByEmail(email string) (*models.User, error) {
	return s.users[strings.ToLower(email)], nil
}

func (s *stubAuthStore) AddUser(u *models.User) (*models.User, error) {
	stored := *u
	stored.ID = int64(len(s.users) + 1)
	s.users[stored.Email] = &stored
	return &stored, nil
}

func fakeSigner(uid int64, role models.Role, email string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("token-%d-%s", uid, role), nil
}

func TestRegisterAndLogin(t *testing.T) {
	store := newStubAuthStore()
	svc := NewAuthService(store, fakeSigner)

	res, err := svc.Register("  Ana@Example.COM ", "password123", " Ana P ")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.Role != models.RoleStudent {
		t.Fatalf("self-registration must create students, got %s", res.Role)
	}
	if res.Token != fmt.Sprintf("token-%d-student", res.UserID) {
		t.Fatalf("unexpected token: %q", res.Token)
	}
	user := store.users["ana@example.com"]
	if user == nil {
		t.Fatal("email must be lowercased and trimmed before storage")
	}
	if user.FullName != "Ana P" {
		t.Fatalf("full name not trimmed: %q", user.FullName)
	}
	if string(user.PassHash) == "password123" {
		t.Fatal("password stored in the clear")
	}

	login, err := svc.Login("ana@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.UserID != res.UserID {
		t.Fatalf("login user id = %d, want %d", login.UserID, res.UserID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubAuthStore(), fakeSigner)
	if _, err := svc.Register("a@b.com", "password123", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := svc.Register("A@B.com", "otherpassword", "")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newStubAuthStore(), fakeSigner)
	if _, err := svc.Register("a@b.com", "password123", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login("a@b.com", "wrongpassword")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	_, err = svc.Login("nobody@b.com", "password123")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	_, err = svc.Login("", "")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}
