package inmemdb

import (
	"strings"

	"github.com/tutorhub/backend/core/tutor"
)

type tutorRepository struct {
	db *tutorTable
}

var _ tutor.Repository = (*tutorRepository)(nil)

func NewTutorRepository(db *DB) tutor.Repository {
	return &tutorRepository{db: db.tutor}
}

func (repo *tutorRepository) query() []tutor.Tutor {
	tutors := make([]tutor.Tutor, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		tutors = append(tutors, *repo.db.rows[id])
	}
	return tutors
}

func (repo *tutorRepository) CreateTutor(t tutor.Tutor) (tutor.Tutor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if t.Availability == nil {
		t.Availability = make(tutor.Availability)
	}
	repo.db.rows[t.ID] = &t
	repo.db.order = append(repo.db.order, t.ID)
	return t, nil
}

func (repo *tutorRepository) QueryAllTutors() ([]tutor.Tutor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *tutorRepository) GetTutorByID(id string) (tutor.Tutor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.rows[id]; ok {
		return *t, nil
	}
	return tutor.Tutor{}, tutor.ErrNotFound
}

func (repo *tutorRepository) GetTutorByUserID(userID string) (tutor.Tutor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.query() {
		if t.UserID == userID {
			return t, nil
		}
	}
	return tutor.Tutor{}, tutor.ErrNotFound
}

func (repo *tutorRepository) FilterTutors(filter tutor.QueryFilter) ([]tutor.Tutor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.IsEmpty() {
		return repo.query(), nil
	}

	match := func(t tutor.Tutor) bool {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			found := strings.Contains(strings.ToLower(t.Headline), search) ||
				strings.Contains(strings.ToLower(t.Bio), search)
			for _, s := range t.Subjects {
				found = found || strings.Contains(strings.ToLower(s), search)
			}
			if !found {
				return false
			}
		}
		if filter.Subject != "" {
			var offered bool
			for _, s := range t.Subjects {
				if strings.EqualFold(s, filter.Subject) {
					offered = true
					break
				}
			}
			if !offered {
				return false
			}
		}
		if filter.MaxRate != nil && t.HourlyRate > *filter.MaxRate {
			return false
		}
		if filter.MinRating != nil && t.Rating < *filter.MinRating {
			return false
		}
		return true
	}

	var tutors []tutor.Tutor
	for _, t := range repo.query() {
		if match(t) {
			tutors = append(tutors, t)
		}
	}
	return tutors, nil
}

func (repo *tutorRepository) UpdateTutor(t tutor.Tutor) (tutor.Tutor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.rows[t.ID]
	if !ok {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	t.Availability = orig.Availability
	t.CreatedAt = orig.CreatedAt
	repo.db.rows[t.ID] = &t
	return t, nil
}

func (repo *tutorRepository) SetAvailability(tutorID, day string, slots []string) (tutor.Tutor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.rows[tutorID]
	if !ok {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	if t.Availability == nil {
		t.Availability = make(tutor.Availability)
	}
	t.Availability[day] = slots
	return *t, nil
}
