package bookingRepository

import (
	"context"
	"strings"
	"time"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/booking"
	"BistroGolang/internal/entity"
	contextPkg "BistroGolang/pkg/context"

	"github.com/sirupsen/logrus"
)

type Repository interface {
	Add(ctx context.Context, b entity.Booking) (entity.Booking, error)
	GetByID(ctx context.Context, id int) (entity.Booking, error)
	List(ctx context.Context) ([]entity.Booking, error)
	ListByStatus(ctx context.Context, status entity.BookingStatus) ([]entity.Booking, error)
	Search(ctx context.Context, query string) ([]entity.Booking, error)
	Update(ctx context.Context, id int, apply func(*entity.Booking) error) (entity.Booking, error)
}

type repository struct {
	store *jsonstore.Store
	log   *logrus.Logger
	now   func() time.Time
}

func New(store *jsonstore.Store, log *logrus.Logger) Repository {
	return &repository{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Add assigns the next id, stamps the creation time and defaults the status
// to pending. Ids are one-based and never reused within a document.
func (r *repository) Add(ctx context.Context, b entity.Booking) (entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	err := r.store.Update(func(doc *jsonstore.Document) error {
		maxID := 0
		for _, existing := range doc.Bookings {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}

		b.ID = maxID + 1
		b.CreatedAt = r.now().UTC()
		if b.Status == "" {
			b.Status = entity.BookingStatusPending
		}
		if b.Source == "" {
			b.Source = entity.BookingSourceAPI
		}

		doc.Bookings = append(doc.Bookings, b)
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to persist new booking")
		return entity.Booking{}, err
	}

	return b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var found *entity.Booking
	err := r.store.View(func(doc *jsonstore.Document) error {
		for i := range doc.Bookings {
			if doc.Bookings[i].ID == id {
				b := doc.Bookings[i]
				found = &b
				return nil
			}
		}
		return booking.ErrBookingNotFound
	})
	if err != nil {
		if err != booking.ErrBookingNotFound {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to read booking")
		}
		return entity.Booking{}, err
	}

	return *found, nil
}

func (r *repository) List(ctx context.Context) ([]entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var out []entity.Booking
	err := r.store.View(func(doc *jsonstore.Document) error {
		out = append(out, doc.Bookings...)
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list bookings")
		return nil, err
	}

	return out, nil
}

func (r *repository) ListByStatus(ctx context.Context, status entity.BookingStatus) ([]entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var out []entity.Booking
	err := r.store.View(func(doc *jsonstore.Document) error {
		for _, b := range doc.Bookings {
			if b.Status == status {
				out = append(out, b)
			}
		}
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list bookings by status")
		return nil, err
	}

	return out, nil
}

// Search matches case-insensitively against the customer name, phone number
// and notes.
func (r *repository) Search(ctx context.Context, query string) ([]entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)
	needle := strings.ToLower(strings.TrimSpace(query))

	var out []entity.Booking
	err := r.store.View(func(doc *jsonstore.Document) error {
		for _, b := range doc.Bookings {
			haystack := strings.ToLower(strings.Join([]string{
				b.CustomerName, b.PhoneNumber, b.Notes,
			}, " "))
			if strings.Contains(haystack, needle) {
				out = append(out, b)
			}
		}
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to search bookings")
		return nil, err
	}

	return out, nil
}

// Update applies the mutation to the stored booking. The id and creation
// time are restored afterwards so callers cannot rewrite them.
func (r *repository) Update(ctx context.Context, id int, apply func(*entity.Booking) error) (entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var updated entity.Booking
	err := r.store.Update(func(doc *jsonstore.Document) error {
		for i := range doc.Bookings {
			if doc.Bookings[i].ID != id {
				continue
			}

			createdAt := doc.Bookings[i].CreatedAt
			if err := apply(&doc.Bookings[i]); err != nil {
				return err
			}
			doc.Bookings[i].ID = id
			doc.Bookings[i].CreatedAt = createdAt

			updated = doc.Bookings[i]
			return nil
		}
		return booking.ErrBookingNotFound
	})
	if err != nil {
		if err != booking.ErrBookingNotFound {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"booking_id": id,
				"error":      err.Error(),
			}).Error("Failed to update booking")
		}
		return entity.Booking{}, err
	}

	return updated, nil
}
