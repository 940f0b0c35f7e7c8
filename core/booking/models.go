package booking

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tutorhub/backend/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Actor roles
const (
	ActorParent = "parent"
	ActorTutor  = "tutor"
)

// Actions
const (
	ActionApprove = "approve"
	ActionDecline = "decline"
	ActionCancel  = "cancel"
)

// Durations holds the allowed session lengths in minutes.
var Durations = []int{30, 60, 90, 120}

// IsAllowedDuration reports whether minutes is an allowed session length.
func IsAllowedDuration(minutes int) bool {
	for _, d := range Durations {
		if d == minutes {
			return true
		}
	}
	return false
}

type Booking struct {
	ID        string    `json:"id"`
	TutorID   string    `json:"tutor_id"`
	ParentID  string    `json:"parent_id"`
	ChildID   string    `json:"child_id"`
	Subject   string    `json:"subject"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:MM, 24-hour
	Duration  int       `json:"duration"` // minutes
	Status    string    `json:"status"`
	Price     float64   `json:"price"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// IsTerminal reports whether the booking reached a terminal status.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// Actor is the party attempting a state transition.
type Actor struct {
	Role string // parent | tutor
	ID   string // User ID for a parent, Tutor ID for a tutor
}

// NewBooking contains information needed to request a tutoring session.
type NewBooking struct {
	TutorID  string `json:"tutor_id" validate:"required"`
	ChildID  string `json:"child_id" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Date     string `json:"date" validate:"required,datestr"`
	Time     string `json:"time" validate:"required,timehm"`
	Duration int    `json:"duration" validate:"required"`
	Notes    string `json:"notes"`
}

func (nb *NewBooking) Validate(validate *validator.Validate) error {
	nb.Subject = core.CleanString(nb.Subject)
	nb.Time = core.CleanString(nb.Time)
	nb.Date = core.CleanString(nb.Date)
	nb.Notes = core.CleanString(nb.Notes)
	return validate.Struct(nb)
}

type QueryFilter struct {
	TutorID  string `query:"tutor_id"`
	ParentID string `query:"parent_id"`
	Status   string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TutorID == "" && qf.ParentID == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

// Earnings summarizes a tutor's booking income.
type Earnings struct {
	Total    float64 `json:"total"`    // completed sessions
	Upcoming float64 `json:"upcoming"` // confirmed, not yet completed
	Sessions int     `json:"sessions"` // completed session count
}
