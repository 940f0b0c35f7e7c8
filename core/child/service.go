package child

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("child not found")

type (
	Repository interface {
		CreateChild(c Child) (Child, error)
		GetChildByID(id string) (Child, error)
		QueryChildrenByParent(parentID string) ([]Child, error)
		UpdateChild(c Child) (Child, error)
	}

	Service interface {
		Create(parentID string, nc NewChild) (Child, error)
		GetByID(id string) (Child, error)
		QueryByParent(parentID string) ([]Child, error)
		Update(id string, uc UpdateChild) (Child, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(parentID string, nc NewChild) (Child, error) {
	now := time.Now().UTC()
	c := Child{
		ID:        uuid.New().String(),
		ParentID:  parentID,
		Name:      nc.Name,
		Age:       nc.Age,
		Grade:     nc.Grade,
		Subjects:  nc.Subjects,
		Notes:     nc.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateChild(c)
}

func (svc *service) GetByID(id string) (Child, error) {
	return svc.repo.GetChildByID(id)
}

func (svc *service) QueryByParent(parentID string) ([]Child, error) {
	return svc.repo.QueryChildrenByParent(parentID)
}

func (svc *service) Update(id string, uc UpdateChild) (Child, error) {
	orig, err := svc.repo.GetChildByID(id)
	if err != nil {
		return Child{}, err
	}
	if uc.Name != "" {
		orig.Name = uc.Name
	}
	if uc.Age != nil {
		orig.Age = *uc.Age
	}
	if uc.Grade != "" {
		orig.Grade = uc.Grade
	}
	if uc.Subjects != nil {
		orig.Subjects = uc.Subjects
	}
	if uc.Notes != "" {
		orig.Notes = uc.Notes
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateChild(orig)
}
