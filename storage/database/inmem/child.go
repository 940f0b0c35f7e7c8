package inmemdb

import (
	"github.com/tutorhub/backend/core/child"
)

type childRepository struct {
	db *childTable
}

var _ child.Repository = (*childRepository)(nil)

func NewChildRepository(db *DB) child.Repository {
	return &childRepository{db: db.child}
}

func (repo *childRepository) CreateChild(c child.Child) (child.Child, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows[c.ID] = &c
	repo.db.order = append(repo.db.order, c.ID)
	return c, nil
}

func (repo *childRepository) GetChildByID(id string) (child.Child, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.rows[id]; ok {
		return *c, nil
	}
	return child.Child{}, child.ErrNotFound
}

func (repo *childRepository) QueryChildrenByParent(parentID string) ([]child.Child, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	children := make([]child.Child, 0)
	for _, id := range repo.db.order {
		if c := repo.db.rows[id]; c.ParentID == parentID {
			children = append(children, *c)
		}
	}
	return children, nil
}

func (repo *childRepository) UpdateChild(c child.Child) (child.Child, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.rows[c.ID]
	if !ok {
		return child.Child{}, child.ErrNotFound
	}
	c.ParentID = orig.ParentID
	c.CreatedAt = orig.CreatedAt
	repo.db.rows[c.ID] = &c
	return c, nil
}
