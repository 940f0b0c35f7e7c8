package tutor

import (
	"sort"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tutorhub/backend/core"
)

// WeekDays holds the seven day keys, indexed by time.Weekday (Sunday = 0).
var WeekDays = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// IsWeekDay reports whether day is one of the seven day keys.
func IsWeekDay(day string) bool {
	for _, d := range WeekDays {
		if d == day {
			return true
		}
	}
	return false
}

// DayOfDate returns the day key for a YYYY-MM-DD calendar date.
func DayOfDate(date string) (string, error) {
	d, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return "", err
	}
	return WeekDays[d.Weekday()], nil
}

// Availability is a tutor's recurring weekly slot table: day key -> ascending,
// duplicate-free HH:MM times the tutor is willing to take a booking at.
type Availability map[string][]string

// Slots returns the configured slots for a weekday; empty if none configured.
func (a Availability) Slots(day string) []string {
	if a == nil {
		return []string{}
	}
	slots, ok := a[day]
	if !ok {
		return []string{}
	}
	out := make([]string, len(slots))
	copy(out, slots)
	return out
}

// NormalizeSlots collapses duplicates and returns the slots in ascending order.
// HH:MM strings sort lexically in time order.
func NormalizeSlots(slots []string) []string {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

type Tutor struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Headline     string       `json:"headline,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Subjects     []string     `json:"subjects"`
	HourlyRate   float64      `json:"hourly_rate"`
	Rating       float64      `json:"rating"`
	ReviewCount  int          `json:"review_count"`
	Availability Availability `json:"availability"`
	CreatedAt    time.Time    `json:"created_at"` // UTC
	UpdatedAt    time.Time    `json:"updated_at"` // UTC
}

// OffersSubject reports whether subject is among the tutor's declared subjects.
func (t *Tutor) OffersSubject(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// NewTutor contains information needed to create a new Tutor profile.
type NewTutor struct {
	UserID     string   `json:"user_id" validate:"required"`
	Headline   string   `json:"headline"`
	Bio        string   `json:"bio"`
	Subjects   []string `json:"subjects" validate:"required,min=1,dive,required"`
	HourlyRate float64  `json:"hourly_rate" validate:"required,gt=0"`
}

func (nt *NewTutor) Validate(validate *validator.Validate) error {
	nt.Headline = core.CleanString(nt.Headline)
	nt.Bio = core.CleanString(nt.Bio)
	for i, s := range nt.Subjects {
		nt.Subjects[i] = core.CleanString(s)
	}
	return validate.Struct(nt)
}

// UpdateTutor defines what information may be provided to modify an existing Tutor.
type UpdateTutor struct {
	Headline   string   `json:"headline"`
	Bio        string   `json:"bio"`
	Subjects   []string `json:"subjects" validate:"omitempty,min=1,dive,required"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gt=0"`
}

func (ut *UpdateTutor) Validate(validate *validator.Validate) error {
	ut.Headline = core.CleanString(ut.Headline)
	ut.Bio = core.CleanString(ut.Bio)
	for i, s := range ut.Subjects {
		ut.Subjects[i] = core.CleanString(s)
	}
	return validate.Struct(ut)
}

// SlotUpdate replaces a day's slot list wholesale; the editing UI toggles
// individual slots and submits the full resulting list.
type SlotUpdate struct {
	Slots []string `json:"slots" validate:"dive,timehm"`
}

func (su *SlotUpdate) Validate(validate *validator.Validate) error {
	for i, s := range su.Slots {
		su.Slots[i] = core.CleanString(s)
	}
	return validate.Struct(su)
}

type QueryFilter struct {
	Search    string   `query:"search"`
	Subject   string   `query:"subject"`
	MaxRate   *float64 `query:"max_rate"`
	MinRating *float64 `query:"min_rating"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Subject == "" && qf.MaxRate == nil && qf.MinRating == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Subject = core.CleanString(qf.Subject)
}

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return IsWeekDay(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, "weekday", "must be a lowercase day of the week")
}
