package inmemdb

import (
	"strings"

	"github.com/tutorhub/backend/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		users = append(users, *repo.db.rows[id])
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email && !isExcluded(usr.ID, excludedUsers) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows[usr.ID] = &usr
	repo.db.order = append(repo.db.order, usr.ID)
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.rows[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.IsEmpty() {
		return repo.query(), nil
	}

	match := func(usr user.User) bool {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(usr.Name), search) &&
				!strings.Contains(strings.ToLower(usr.Email), search) {
				return false
			}
		}
		if filter.Role != "" && usr.Role != filter.Role {
			return false
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			return false
		}
		return true
	}

	var users []user.User
	for _, usr := range repo.query() {
		if match(usr) {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	origUsr, ok := repo.db.rows[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.Name != "" {
		origUsr.Name = usr.Name
	}
	if usr.Email != "" {
		origUsr.Email = usr.Email
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		origUsr.IsActive = *isActive
	}
	if !usr.LastLogin.IsZero() {
		origUsr.LastLogin = usr.LastLogin
	}
	if !usr.UpdatedAt.IsZero() {
		origUsr.UpdatedAt = usr.UpdatedAt
	}
	return *origUsr, nil
}

func isExcluded(id string, excludedUsers []user.User) bool {
	for _, usr := range excludedUsers {
		if usr.ID == id {
			return true
		}
	}
	return false
}
