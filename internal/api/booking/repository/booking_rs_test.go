package bookingRepository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/booking"
	"BistroGolang/internal/entity"

	"github.com/sirupsen/logrus"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()

	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "db.json"))

	store, err := jsonstore.New(logrus.New())
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}
	return New(store, logrus.New())
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		created, err := repo.Add(ctx, entity.Booking{Notes: "table for two"})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if created.ID != want {
			t.Fatalf("id = %d, want %d", created.ID, want)
		}
		if created.Status != entity.BookingStatusPending {
			t.Fatalf("status = %q, want pending", created.Status)
		}
		if created.CreatedAt.IsZero() {
			t.Fatal("created_at not stamped")
		}
	}
}

func TestAddConcurrentIDsAreUnique(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const n = 16
	ids := make(chan int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			created, err := repo.Add(ctx, entity.Booking{Notes: "concurrent"})
			if err != nil {
				t.Errorf("Add: %v", err)
				return
			}
			ids <- created.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d ids, want %d", len(seen), n)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, booking.ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
}

func TestUpdatePreservesIDAndCreatedAt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, entity.Booking{CustomerName: "John"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, func(b *entity.Booking) error {
		b.ID = 999
		b.CustomerName = "Johnny"
		b.Status = entity.BookingStatusConfirmed
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("id changed to %d", updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.CustomerName != "Johnny" || updated.Status != entity.BookingStatusConfirmed {
		t.Fatalf("patch not applied: %+v", updated)
	}
}

func TestUpdateUnknownIDFails(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Update(context.Background(), 7, func(b *entity.Booking) error {
		b.Notes = "never stored"
		return nil
	})
	if !errors.Is(err, booking.ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}

	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("store mutated by failed update: %+v", all)
	}
}

func TestUpdateApplyErrorDiscardsChange(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, entity.Booking{CustomerName: "Ana"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	wantErr := errors.New("veto")
	_, err = repo.Update(ctx, created.ID, func(b *entity.Booking) error {
		b.CustomerName = "changed"
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.CustomerName != "Ana" {
		t.Fatalf("change persisted despite error: %+v", stored)
	}
}

func TestListByStatusAndSearch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, _ := repo.Add(ctx, entity.Booking{CustomerName: "John Smith", PhoneNumber: "5551234"})
	repo.Add(ctx, entity.Booking{CustomerName: "Maria", Notes: "window seat"})

	if _, err := repo.Update(ctx, first.ID, func(b *entity.Booking) error {
		b.Status = entity.BookingStatusConfirmed
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	confirmed, err := repo.ListByStatus(ctx, entity.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(confirmed) != 1 || confirmed[0].CustomerName != "John Smith" {
		t.Fatalf("unexpected confirmed list: %+v", confirmed)
	}

	// Search is case-insensitive across name, phone and notes.
	hits, err := repo.Search(ctx, "JOHN")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].CustomerName != "John Smith" {
		t.Fatalf("unexpected search result: %+v", hits)
	}

	hits, err = repo.Search(ctx, "window")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].CustomerName != "Maria" {
		t.Fatalf("unexpected search result: %+v", hits)
	}
}
