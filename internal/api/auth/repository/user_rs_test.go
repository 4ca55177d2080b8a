package authRepository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/auth"
	"BistroGolang/internal/entity"

	"github.com/sirupsen/logrus"
)

func newTestStore(t *testing.T) *jsonstore.Store {
	t.Helper()
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "db.json"))

	store, err := jsonstore.New(logrus.New())
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}
	return store
}

func TestCreateUserPersistsPasswordHash(t *testing.T) {
	log := logrus.New()
	store := newTestStore(t)
	repo := New(store, log)

	created, err := repo.CreateUser(context.Background(), entity.User{
		Email:    "staff@bistro.test",
		Username: "staff",
		Password: "$2a$10$examplebcrypthashvalue",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("id = %d, want 1", created.ID)
	}

	// Reads go back to disk, the hash must survive the round trip.
	got, err := repo.GetUserByEmail(context.Background(), "staff@bistro.test")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.Password != "$2a$10$examplebcrypthashvalue" {
		t.Fatalf("password = %q, want the stored hash", got.Password)
	}

	// Same through a freshly opened store.
	reopened, err := jsonstore.New(log)
	if err != nil {
		t.Fatalf("jsonstore.New reopen: %v", err)
	}
	got, err = New(reopened, log).GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID after reopen: %v", err)
	}
	if got.Password != "$2a$10$examplebcrypthashvalue" {
		t.Fatalf("password after reopen = %q, want the stored hash", got.Password)
	}
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	repo := New(newTestStore(t), logrus.New())

	if _, err := repo.CreateUser(context.Background(), entity.User{
		Email:    "staff@bistro.test",
		Username: "staff",
		Password: "hash",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := repo.CreateUser(context.Background(), entity.User{
		Email:    "STAFF@bistro.test",
		Username: "other",
		Password: "hash",
	})
	if !errors.Is(err, auth.ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}

	_, err = repo.CreateUser(context.Background(), entity.User{
		Email:    "second@bistro.test",
		Username: "Staff",
		Password: "hash",
	})
	if !errors.Is(err, auth.ErrUsernameAlreadyExists) {
		t.Fatalf("err = %v, want ErrUsernameAlreadyExists", err)
	}
}

func TestGetUserUnknown(t *testing.T) {
	repo := New(newTestStore(t), logrus.New())

	if _, err := repo.GetUserByEmail(context.Background(), "nobody@bistro.test"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetUserByID(context.Background(), 99); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
