package child

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tutorhub/backend/core"
)

type Child struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Grade     string    `json:"grade,omitempty"`
	Subjects  []string  `json:"subjects,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewChild contains information needed to register a parent's child.
type NewChild struct {
	Name     string   `json:"name" validate:"required"`
	Age      int      `json:"age" validate:"required,gte=3,lte=19"`
	Grade    string   `json:"grade"`
	Subjects []string `json:"subjects" validate:"omitempty,dive,required"`
	Notes    string   `json:"notes"`
}

func (nc *NewChild) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Grade = core.CleanString(nc.Grade)
	for i, s := range nc.Subjects {
		nc.Subjects[i] = core.CleanString(s)
	}
	return validate.Struct(nc)
}

// UpdateChild defines what information may be provided to modify an existing Child.
type UpdateChild struct {
	Name     string   `json:"name"`
	Age      *int     `json:"age" validate:"omitempty,gte=3,lte=19"`
	Grade    string   `json:"grade"`
	Subjects []string `json:"subjects" validate:"omitempty,dive,required"`
	Notes    string   `json:"notes"`
}

func (uc *UpdateChild) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	uc.Grade = core.CleanString(uc.Grade)
	for i, s := range uc.Subjects {
		uc.Subjects[i] = core.CleanString(s)
	}
	return validate.Struct(uc)
}
