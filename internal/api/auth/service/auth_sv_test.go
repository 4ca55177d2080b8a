package authService

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/auth"
	authRepository "BistroGolang/internal/api/auth/repository"
	"BistroGolang/pkg/bcrypt"

	"github.com/sirupsen/logrus"
)

func newTestService(t *testing.T) IAuthService {
	t.Helper()
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "db.json"))
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	log := logrus.New()
	store, err := jsonstore.New(log)
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}

	return New(log, authRepository.New(store, log), bcrypt.New())
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "staff@bistro.test",
		Username: "staff",
		Password: "super-secret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "staff@bistro.test",
		Password: "super-secret-pass",
	})
	if err != nil {
		t.Fatalf("Login right after register: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if resp.User.ID != user.ID || resp.User.Email != user.Email {
		t.Fatalf("login user = %+v, want the registered user", resp.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "staff@bistro.test",
		Username: "staff",
		Password: "super-secret-pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "staff@bistro.test",
		Password: "wrong",
	})
	if !errors.Is(err, auth.ErrInvalidEmailOrPassword) {
		t.Fatalf("err = %v, want ErrInvalidEmailOrPassword", err)
	}

	// Unknown accounts answer with the same error as a wrong password.
	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@bistro.test",
		Password: "whatever",
	})
	if !errors.Is(err, auth.ErrInvalidEmailOrPassword) {
		t.Fatalf("err = %v, want ErrInvalidEmailOrPassword", err)
	}
}
