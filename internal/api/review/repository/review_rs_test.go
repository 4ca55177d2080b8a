package reviewRepository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/review"
	"BistroGolang/internal/entity"

	"github.com/sirupsen/logrus"
)

func newTestRepository(t *testing.T) *repository {
	t.Helper()
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "db.json"))

	log := logrus.New()
	store, err := jsonstore.New(log)
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}

	return &repository{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestAddAssignsIDAndTime(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Add(context.Background(), entity.Review{
		AuthorName: "Maria",
		Rating:     5,
		Text:       "Wonderful dinner",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if created.ID == "" {
		t.Fatal("review id not assigned")
	}
	if created.Time != "2025-06-01T12:00:00Z" {
		t.Fatalf("time = %q, want stamped RFC3339", created.Time)
	}

	// A caller-supplied time is kept as-is.
	supplied, err := repo.Add(context.Background(), entity.Review{
		AuthorName: "Tom",
		Rating:     4,
		Time:       "2025-05-20T19:30:00Z",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if supplied.Time != "2025-05-20T19:30:00Z" {
		t.Fatalf("time = %q, want the supplied value", supplied.Time)
	}
}

func TestReviewRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	t.Setenv("STORE_PATH", path)

	log := logrus.New()
	store, err := jsonstore.New(log)
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}
	repo := New(store, log)

	created, err := repo.Add(context.Background(), entity.Review{
		AuthorName: "Maria",
		Rating:     2,
		Text:       "Slow service",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Reopen the store to force a reload from disk.
	reopened, err := jsonstore.New(log)
	if err != nil {
		t.Fatalf("jsonstore.New reopen: %v", err)
	}
	repo2 := New(reopened, log)

	got, err := repo2.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID after reopen: %v", err)
	}
	if got.AuthorName != "Maria" || got.Rating != 2 || got.Time != created.Time {
		t.Fatalf("reloaded review = %+v, want %+v", got, created)
	}
}

func TestGetByIDUnknown(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.GetByID(context.Background(), "01UNKNOWN"); !errors.Is(err, review.ErrReviewNotFound) {
		t.Fatalf("err = %v, want ErrReviewNotFound", err)
	}
}

func TestSetReplyOnce(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Add(context.Background(), entity.Review{AuthorName: "Tom", Rating: 3})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated, err := repo.SetReply(context.Background(), created.ID, "Thanks for coming by!")
	if err != nil {
		t.Fatalf("SetReply: %v", err)
	}
	if updated.Reply != "Thanks for coming by!" {
		t.Fatalf("reply = %q", updated.Reply)
	}
	if updated.RepliedAt != "2025-06-01T12:00:00Z" {
		t.Fatalf("replied_at = %q, want stamped RFC3339", updated.RepliedAt)
	}

	if _, err := repo.SetReply(context.Background(), created.ID, "again"); !errors.Is(err, review.ErrAlreadyReplied) {
		t.Fatalf("err = %v, want ErrAlreadyReplied", err)
	}

	if _, err := repo.SetReply(context.Background(), "01UNKNOWN", "hi"); !errors.Is(err, review.ErrReviewNotFound) {
		t.Fatalf("err = %v, want ErrReviewNotFound", err)
	}
}
