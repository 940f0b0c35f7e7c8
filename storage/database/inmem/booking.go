package inmemdb

import (
	"time"

	"github.com/tutorhub/backend/core/booking"
)

type bookingRepository struct {
	db *bookingTable
}

var _ booking.Repository = (*bookingRepository)(nil)

func NewBookingRepository(db *DB) booking.Repository {
	return &bookingRepository{db: db.booking}
}

// query returns bookings in insertion order.
func (repo *bookingRepository) query() []booking.Booking {
	bookings := make([]booking.Booking, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		bookings = append(bookings, *repo.db.rows[id])
	}
	return bookings
}

func (repo *bookingRepository) CreateBooking(b booking.Booking) (booking.Booking, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows[b.ID] = &b
	repo.db.order = append(repo.db.order, b.ID)
	return b, nil
}

func (repo *bookingRepository) GetBookingByID(id string) (booking.Booking, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.rows[id]; ok {
		return *b, nil
	}
	return booking.Booking{}, booking.ErrNotFound
}

func (repo *bookingRepository) QueryAllBookings() ([]booking.Booking, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *bookingRepository) FilterBookings(filter booking.QueryFilter) ([]booking.Booking, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.IsEmpty() {
		return repo.query(), nil
	}

	match := func(b booking.Booking) bool {
		if filter.TutorID != "" && b.TutorID != filter.TutorID {
			return false
		}
		if filter.ParentID != "" && b.ParentID != filter.ParentID {
			return false
		}
		if filter.Status != "" && b.Status != filter.Status {
			return false
		}
		return true
	}

	bookings := make([]booking.Booking, 0)
	for _, b := range repo.query() {
		if match(b) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (repo *bookingRepository) UpdateBookingStatus(id, status string, updatedAt time.Time) (booking.Booking, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b, ok := repo.db.rows[id]
	if !ok {
		return booking.Booking{}, booking.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	return *b, nil
}
