package booking

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core"
	"github.com/tutorhub/backend/core/child"
	"github.com/tutorhub/backend/core/tutor"
	"github.com/tutorhub/backend/core/user"
)

var (
	// errors
	ErrNotFound          = errors.New("booking not found")
	ErrSubjectNotOffered = errors.New("the tutor does not offer this subject")
	ErrInvalidDuration   = errors.New("session duration must be 30, 60, 90 or 120 minutes")
	ErrSlotUnavailable   = errors.New("the tutor is not available at this time")
	ErrDateInPast        = errors.New("the session date has already passed")
	ErrForbidden         = errors.New("this party may not perform this action")
	ErrInvalidTransition = errors.New("the booking no longer accepts this action")
)

type (
	Repository interface {
		CreateBooking(b Booking) (Booking, error)
		GetBookingByID(id string) (Booking, error)
		QueryAllBookings() ([]Booking, error)
		// FilterBookings applies AND operation on available QueryFilter fields.
		// Results keep insertion order; consumers needing chronological order
		// must sort explicitly.
		FilterBookings(filter QueryFilter) ([]Booking, error)
		UpdateBookingStatus(id, status string, updatedAt time.Time) (Booking, error)
	}

	Service interface {
		Create(parentID string, nb NewBooking) (Booking, error)
		GetByID(id string) (Booking, error)
		Query(filter QueryFilter) ([]Booking, error)
		// Transition applies an actor's action to a pending or confirmed
		// booking per the status state machine.
		Transition(id string, actor Actor, action string) (Booking, error)
		// Complete marks a confirmed booking completed. The trigger is
		// external (an operator, once the session date has passed); nothing
		// in the engine schedules it.
		Complete(id string) (Booking, error)
		Earnings(tutorID string) (Earnings, error)
	}

	service struct {
		repo     Repository
		tutorSvc tutor.Service
		childSvc child.Service
		usrSvc   user.Service
		sink     core.NotificationSink
		mailSvc  core.EmailService
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	tutorSvc tutor.Service,
	childSvc child.Service,
	usrSvc user.Service,
	sink core.NotificationSink,
	mailSvc core.EmailService,
	conf *core.Config,
) Service {
	return &service{
		repo:     repo,
		tutorSvc: tutorSvc,
		childSvc: childSvc,
		usrSvc:   usrSvc,
		sink:     sink,
		mailSvc:  mailSvc,
		conf:     conf,
	}
}

// Create validates a session request against the tutor's subjects and weekly
// availability and records it in status "pending". Existing bookings at the
// same slot are not consulted.
func (svc *service) Create(parentID string, nb NewBooking) (Booking, error) {
	tut, err := svc.tutorSvc.GetByID(nb.TutorID)
	if err != nil {
		return Booking{}, err
	}

	chd, err := svc.childSvc.GetByID(nb.ChildID)
	if err != nil {
		return Booking{}, err
	}
	if chd.ParentID != parentID {
		return Booking{}, core.NewValidationError(child.ErrNotFound,
			core.FieldError{Field: "child_id", Error: child.ErrNotFound.Error()})
	}

	if !tut.OffersSubject(nb.Subject) {
		return Booking{}, ErrSubjectNotOffered
	}
	if !IsAllowedDuration(nb.Duration) {
		return Booking{}, ErrInvalidDuration
	}
	if !tutor.SlotOffered(tut, nb.Date, nb.Time) {
		if tutor.DateInPast(nb.Date) {
			return Booking{}, ErrDateInPast
		}
		return Booking{}, ErrSlotUnavailable
	}

	now := time.Now().UTC()
	b := Booking{
		ID:        uuid.New().String(),
		TutorID:   tut.ID,
		ParentID:  parentID,
		ChildID:   chd.ID,
		Subject:   nb.Subject,
		Date:      nb.Date,
		Time:      nb.Time,
		Duration:  nb.Duration,
		Status:    StatusPending,
		Price:     tut.HourlyRate * float64(nb.Duration) / 60,
		Notes:     nb.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b, err = svc.repo.CreateBooking(b)
	if err != nil {
		return Booking{}, err
	}

	tutUsr, err := svc.usrSvc.GetByID(tut.UserID)
	if err != nil {
		return b, errors.Wrap(err, "finding tutor user")
	}
	svc.sink.Notify(parentID, core.Notice{
		Kind:    core.NoticeSuccess,
		Title:   "Booking Confirmed!",
		Message: fmt.Sprintf("Your session with %s has been booked.", tutUsr.Name),
	})
	svc.sink.Notify(tut.UserID, core.Notice{
		Kind:    core.NoticeInfo,
		Title:   "New Booking Request",
		Message: fmt.Sprintf("You have a new %s session request for %s at %s.", b.Subject, b.Date, b.Time),
	})
	return b, nil
}

func (svc *service) GetByID(id string) (Booking, error) {
	return svc.repo.GetBookingByID(id)
}

func (svc *service) Query(filter QueryFilter) ([]Booking, error) {
	return svc.repo.FilterBookings(filter)
}

func (svc *service) Transition(id string, actor Actor, action string) (Booking, error) {
	b, err := svc.repo.GetBookingByID(id)
	if err != nil {
		return Booking{}, err
	}
	if b.IsTerminal() {
		return Booking{}, ErrInvalidTransition
	}

	next, err := nextStatus(b.Status, actor, action, b)
	if err != nil {
		return Booking{}, err
	}

	b, err = svc.repo.UpdateBookingStatus(b.ID, next, time.Now().UTC())
	if err != nil {
		return Booking{}, err
	}
	svc.notifyOutcome(b, action)
	return b, nil
}

func (svc *service) Complete(id string) (Booking, error) {
	b, err := svc.repo.GetBookingByID(id)
	if err != nil {
		return Booking{}, err
	}
	if b.Status != StatusConfirmed {
		return Booking{}, ErrInvalidTransition
	}
	return svc.repo.UpdateBookingStatus(b.ID, StatusCompleted, time.Now().UTC())
}

func (svc *service) Earnings(tutorID string) (Earnings, error) {
	bookings, err := svc.repo.FilterBookings(QueryFilter{TutorID: tutorID})
	if err != nil {
		return Earnings{}, err
	}
	var e Earnings
	for _, b := range bookings {
		switch b.Status {
		case StatusCompleted:
			e.Total += b.Price
			e.Sessions++
		case StatusConfirmed:
			e.Upcoming += b.Price
		}
	}
	return e, nil
}

// nextStatus resolves the state machine: who may do what in which status.
//
//	pending   --tutor/approve-->  confirmed
//	pending   --tutor/decline-->  cancelled
//	pending   --parent/cancel-->  cancelled
//	confirmed --parent/cancel-->  cancelled
func nextStatus(status string, actor Actor, action string, b Booking) (string, error) {
	switch action {
	case ActionApprove, ActionDecline:
		if actor.Role != ActorTutor || actor.ID != b.TutorID {
			return "", ErrForbidden
		}
		if status != StatusPending {
			return "", ErrInvalidTransition
		}
		if action == ActionApprove {
			return StatusConfirmed, nil
		}
		return StatusCancelled, nil

	case ActionCancel:
		if actor.Role != ActorParent || actor.ID != b.ParentID {
			return "", ErrForbidden
		}
		// pending and confirmed bookings may both be cancelled by the parent
		return StatusCancelled, nil

	default:
		return "", ErrForbidden
	}
}

func (svc *service) notifyOutcome(b Booking, action string) {
	tut, err := svc.tutorSvc.GetByID(b.TutorID)
	if err != nil {
		return
	}

	switch action {
	case ActionApprove:
		svc.sink.Notify(b.ParentID, core.Notice{
			Kind:    core.NoticeSuccess,
			Title:   "Booking Approved",
			Message: "The session has been confirmed.",
		})
		svc.sendStatusMail(b, "Your session has been confirmed",
			fmt.Sprintf("Your %s session on %s at %s has been confirmed by the tutor.", b.Subject, b.Date, b.Time))
	case ActionDecline:
		svc.sink.Notify(b.ParentID, core.Notice{
			Kind:    core.NoticeInfo,
			Title:   "Booking Declined",
			Message: "The session request has been declined.",
		})
		svc.sendStatusMail(b, "Your session request was declined",
			fmt.Sprintf("Unfortunately your %s session request for %s at %s was declined.", b.Subject, b.Date, b.Time))
	case ActionCancel:
		svc.sink.Notify(b.ParentID, core.Notice{
			Kind:    core.NoticeInfo,
			Title:   "Booking Cancelled",
			Message: "Your booking has been cancelled successfully.",
		})
		svc.sink.Notify(tut.UserID, core.Notice{
			Kind:    core.NoticeWarning,
			Title:   "Booking Cancelled",
			Message: fmt.Sprintf("The %s session on %s at %s was cancelled by the parent.", b.Subject, b.Date, b.Time),
		})
	}
}

func (svc *service) sendStatusMail(b Booking, subject, body string) {
	parentUsr, err := svc.usrSvc.GetByID(b.ParentID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: parentUsr.Name, Address: parentUsr.Email}},
		Subject: subject,
		BodyStr: fmt.Sprintf("Hi %s,\n\n%s\n", parentUsr.Name, body),
	})
}
