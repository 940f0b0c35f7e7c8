package inmemdb

import (
	"sync"

	"github.com/tutorhub/backend/core/booking"
	"github.com/tutorhub/backend/core/child"
	"github.com/tutorhub/backend/core/tutor"
	"github.com/tutorhub/backend/core/user"
)

// DB is the process-local storage backend. Every table keeps its rows in a
// map plus the insertion order of their ids; all state is lost on exit.
type (
	DB struct {
		user    *userTable
		tutor   *tutorTable
		child   *childTable
		booking *bookingTable
	}

	userTable struct {
		rows  map[string]*user.User
		order []string
		mutex sync.RWMutex
	}

	tutorTable struct {
		rows  map[string]*tutor.Tutor
		order []string
		mutex sync.RWMutex
	}

	childTable struct {
		rows  map[string]*child.Child
		order []string
		mutex sync.RWMutex
	}

	bookingTable struct {
		rows  map[string]*booking.Booking
		order []string
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:    &userTable{rows: make(map[string]*user.User)},
		tutor:   &tutorTable{rows: make(map[string]*tutor.Tutor)},
		child:   &childTable{rows: make(map[string]*child.Child)},
		booking: &bookingTable{rows: make(map[string]*booking.Booking)},
	}
}
