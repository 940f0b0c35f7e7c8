package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core"
	"github.com/tutorhub/backend/core/tutor"
	"github.com/tutorhub/backend/core/user"
)

var errNoSelfRegisterAsAdmin = "cannot register with this role"

type userApi struct {
	deps ServerDeps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{deps: deps}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)
	ug.POST("/register", api.register)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.GET("/me", api.retrieveMe)
	ag.PUT("/me", api.updateMe)

	// admin endpoints
	ag.POST("", api.create, adminMiddleware())
	ag.GET("", api.query, adminMiddleware())
	ag.GET("/:id", api.retrieve, adminMiddleware())
	ag.PUT("/:id", api.update, adminMiddleware())
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := authenticate(api.deps.Conf, data.Email, data.Password, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) register(ctx echo.Context) error {
	var data RegisterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterRequest")
	}
	if err := data.Validate(api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	// admin accounts are provisioned via the admin app only
	if data.Role == user.RoleAdmin {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoSelfRegisterAsAdmin})
	}

	usr, err := api.deps.UserSvc.Create(data.NewUser)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	if usr.IsTutor() {
		nt := tutor.NewTutor{
			UserID:     usr.ID,
			Headline:   data.TutorProfile.Headline,
			Bio:        data.TutorProfile.Bio,
			Subjects:   data.TutorProfile.Subjects,
			HourlyRate: data.TutorProfile.HourlyRate,
		}
		if _, err = api.deps.TutorSvc.Create(nt); err != nil {
			return errors.Wrap(err, "creating tutor profile")
		}
	}

	claims := GetUserClaims(api.deps.Conf, usr)
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusCreated, RegisterResponse{User: usr, Token: token})
}

// create lets an admin provision an account with any role, admin included.
func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.UserSvc, api.deps.Conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) retrieveMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) updateMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}

	// `IsActive` can only be changed by admin
	if data.IsActive != nil && !usr.IsAdmin() {
		return errHttpForbidden
	}
	if err := data.Validate(usr, api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err = api.deps.UserSvc.Update(usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}
	filter.Clean()

	var users []user.User
	var err error
	if filter.IsEmpty() {
		users, err = api.deps.UserSvc.QueryAll()
	} else {
		users, err = api.deps.UserSvc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.deps.UserSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	usr, err := api.deps.UserSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(usr, api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err = api.deps.UserSvc.Update(usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	RegisterRequest struct {
		user.NewUser
		TutorProfile *TutorProfileRequest `json:"tutor_profile"`
	}

	TutorProfileRequest struct {
		Headline   string   `json:"headline"`
		Bio        string   `json:"bio"`
		Subjects   []string `json:"subjects" validate:"required,min=1,dive,required"`
		HourlyRate float64  `json:"hourly_rate" validate:"required,gt=0"`
	}

	RegisterResponse struct {
		User  user.User `json:"user"`
		Token string    `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (rr *RegisterRequest) Validate(validate *validator.Validate, svc user.Service) error {
	if err := rr.NewUser.Validate(validate, svc); err != nil {
		return err
	}
	if rr.Role == user.RoleTutor {
		if rr.TutorProfile == nil {
			return core.NewValidationError(nil, core.FieldError{Field: "tutor_profile", Error: "required for tutors"})
		}
		return validate.Struct(rr.TutorProfile)
	}
	return nil
}
