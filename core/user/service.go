package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on User.Name or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(usr User, isActive *bool) (User, error)
	}

	Service interface {
		CheckEmailUniqueness(email string, exclUsers ...User) error
		Create(nu NewUser) (User, error)
		QueryAll() ([]User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		Filter(filter QueryFilter) ([]User, error)
		Update(id string, uu UpdateUser) (User, error)
		SetLastLogin(usr User) (User, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckEmailUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclUsers...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

func (svc *service) Update(id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Email:     uu.Email,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

func (svc *service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + svc.conf.AppName + "!",
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour %s account is ready. Start by browsing tutors or completing your profile:\n%s\n",
			usr.Name, svc.conf.AppName, svc.conf.FrontendBaseURL,
		),
	})
}
