package tutor

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core"
)

var (
	// errors
	ErrNotFound   = errors.New("tutor not found")
	ErrBadWeekDay = errors.New("unknown day of week")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateTutor(t Tutor) (Tutor, error)
		QueryAllTutors() ([]Tutor, error)
		GetTutorByID(id string) (Tutor, error)
		GetTutorByUserID(userID string) (Tutor, error)
		// FilterTutors applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Tutor.Headline,
		// Tutor.Bio or one of Tutor.Subjects.
		FilterTutors(filter QueryFilter) ([]Tutor, error)
		UpdateTutor(t Tutor) (Tutor, error)
		SetAvailability(tutorID, day string, slots []string) (Tutor, error)
	}

	Service interface {
		Create(nt NewTutor) (Tutor, error)
		QueryAll() ([]Tutor, error)
		GetByID(id string) (Tutor, error)
		GetByUserID(userID string) (Tutor, error)
		Filter(filter QueryFilter) ([]Tutor, error)
		Update(id string, ut UpdateTutor) (Tutor, error)

		// Slots returns the configured slots for that weekday; empty if none.
		Slots(tutorID, day string) ([]string, error)
		// SetSlots replaces the day's slot list wholesale; duplicate times
		// collapse to one and the stored list is ascending.
		SetSlots(tutorID, day string, slots []string) (Tutor, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(nt NewTutor) (Tutor, error) {
	now := time.Now().UTC()
	t := Tutor{
		ID:           uuid.New().String(),
		UserID:       nt.UserID,
		Headline:     nt.Headline,
		Bio:          nt.Bio,
		Subjects:     nt.Subjects,
		HourlyRate:   nt.HourlyRate,
		Availability: make(Availability),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateTutor(t)
}

func (svc *service) QueryAll() ([]Tutor, error) {
	return svc.repo.QueryAllTutors()
}

func (svc *service) GetByID(id string) (Tutor, error) {
	return svc.repo.GetTutorByID(id)
}

func (svc *service) GetByUserID(userID string) (Tutor, error) {
	return svc.repo.GetTutorByUserID(userID)
}

func (svc *service) Filter(filter QueryFilter) ([]Tutor, error) {
	return svc.repo.FilterTutors(filter)
}

func (svc *service) Update(id string, ut UpdateTutor) (Tutor, error) {
	orig, err := svc.repo.GetTutorByID(id)
	if err != nil {
		return Tutor{}, err
	}
	if ut.Headline != "" {
		orig.Headline = ut.Headline
	}
	if ut.Bio != "" {
		orig.Bio = ut.Bio
	}
	if ut.Subjects != nil {
		orig.Subjects = ut.Subjects
	}
	if ut.HourlyRate != nil {
		orig.HourlyRate = *ut.HourlyRate
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTutor(orig)
}

func (svc *service) Slots(tutorID, day string) ([]string, error) {
	if !IsWeekDay(day) {
		return nil, ErrBadWeekDay
	}
	t, err := svc.repo.GetTutorByID(tutorID)
	if err != nil {
		return nil, err
	}
	return t.Availability.Slots(day), nil
}

func (svc *service) SetSlots(tutorID, day string, slots []string) (Tutor, error) {
	if !IsWeekDay(day) {
		return Tutor{}, ErrBadWeekDay
	}
	return svc.repo.SetAvailability(tutorID, day, NormalizeSlots(slots))
}

// SlotOffered reports whether the tutor offers the (date, hhmm) slot: the
// date's weekday must carry hhmm in the tutor's table and the date must not be
// strictly in the past. The comparison is date-granular only; time of day on
// the booking date itself is not checked against the clock.
func SlotOffered(t Tutor, date, hhmm string) bool {
	d, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(core.DateLayout, NowFunc().Format(core.DateLayout))
	if d.Before(today) {
		return false
	}
	for _, s := range t.Availability.Slots(WeekDays[d.Weekday()]) {
		if s == hhmm {
			return true
		}
	}
	return false
}

// DateInPast reports whether a YYYY-MM-DD date is strictly before today.
func DateInPast(date string) bool {
	d, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(core.DateLayout, NowFunc().Format(core.DateLayout))
	return d.Before(today)
}
