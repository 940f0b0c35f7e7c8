package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core/tutor"
)

type tutorApi struct {
	deps ServerDeps
}

func registerTutorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := tutorApi{deps: deps}

	tg := g.Group("/tutors", jwt)
	tg.GET("", api.query)

	// tutor's own profile
	mg := tg.Group("/me", tutorMiddleware())
	mg.GET("", api.retrieveMe)
	mg.PUT("", api.updateMe)
	mg.PUT("/availability/:day", api.setSlots)

	tg.GET("/:id", api.retrieve)
	tg.GET("/:id/availability", api.availability)
	tg.GET("/:id/availability/:day", api.slots)
}

// Handlers

func (api *tutorApi) query(ctx echo.Context) error {
	filter := new(tutor.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []tutor.Tutor{})
	}
	filter.Clean()

	var tutors []tutor.Tutor
	var err error
	if filter.IsEmpty() {
		tutors, err = api.deps.TutorSvc.QueryAll()
	} else {
		tutors, err = api.deps.TutorSvc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying tutors")
	}
	if tutors == nil {
		tutors = []tutor.Tutor{}
	}
	return ctx.JSON(http.StatusOK, tutors)
}

func (api *tutorApi) retrieve(ctx echo.Context) error {
	tut, err := api.deps.TutorSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding tutor by ID")
	}
	return ctx.JSON(http.StatusOK, tut)
}

func (api *tutorApi) availability(ctx echo.Context) error {
	tut, err := api.deps.TutorSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding tutor by ID")
	}
	return ctx.JSON(http.StatusOK, tut.Availability)
}

func (api *tutorApi) slots(ctx echo.Context) error {
	slots, err := api.deps.TutorSvc.Slots(ctx.Param("id"), ctx.Param("day"))
	if err != nil {
		return errors.Wrap(err, "getting day slots")
	}
	return ctx.JSON(http.StatusOK, SlotsResponse{Day: ctx.Param("day"), Slots: slots})
}

func (api *tutorApi) retrieveMe(ctx echo.Context) error {
	tut, err := api.contextTutor(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tut)
}

func (api *tutorApi) updateMe(ctx echo.Context) error {
	tut, err := api.contextTutor(ctx)
	if err != nil {
		return err
	}

	var data tutor.UpdateTutor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTutor")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tut, err = api.deps.TutorSvc.Update(tut.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating tutor")
	}
	return ctx.JSON(http.StatusOK, tut)
}

func (api *tutorApi) setSlots(ctx echo.Context) error {
	tut, err := api.contextTutor(ctx)
	if err != nil {
		return err
	}

	var data tutor.SlotUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SlotUpdate")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tut, err = api.deps.TutorSvc.SetSlots(tut.ID, ctx.Param("day"), data.Slots)
	if err != nil {
		return errors.Wrap(err, "setting day slots")
	}
	return ctx.JSON(http.StatusOK, SlotsResponse{Day: ctx.Param("day"), Slots: tut.Availability.Slots(ctx.Param("day"))})
}

func (api *tutorApi) contextTutor(ctx echo.Context) (tutor.Tutor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return tutor.Tutor{}, err
	}
	tut, err := api.deps.TutorSvc.GetByUserID(claims.Subject)
	if err != nil {
		return tutor.Tutor{}, errors.Wrap(err, "finding tutor by user ID")
	}
	return tut, nil
}

type SlotsResponse struct {
	Day   string   `json:"day"`
	Slots []string `json:"slots"`
}
