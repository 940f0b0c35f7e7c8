package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core/booking"
)

type bookingApi struct {
	deps ServerDeps
}

func registerBookingAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := bookingApi{deps: deps}

	bg := g.Group("/bookings", jwt)
	bg.POST("", api.create, parentMiddleware())
	bg.GET("", api.query)
	bg.GET("/earnings", api.earnings, tutorMiddleware())
	bg.GET("/:id", api.retrieve)

	bg.POST("/:id/approve", api.approve, tutorMiddleware())
	bg.POST("/:id/decline", api.decline, tutorMiddleware())
	bg.POST("/:id/cancel", api.cancel, parentMiddleware())
	bg.POST("/:id/complete", api.complete, adminMiddleware())
}

// Handlers

func (api *bookingApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data booking.NewBooking
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBooking")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	bkg, err := api.deps.BookingSvc.Create(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating booking")
	}
	return ctx.JSON(http.StatusCreated, bkg)
}

// query lists bookings scoped to the caller: parents see their own,
// tutors see those addressed to them, admins see everything.
func (api *bookingApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	filter := new(booking.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []booking.Booking{})
	}
	filter.Clean()

	switch {
	case claims.IsParent:
		filter.ParentID = claims.Subject
		filter.TutorID = ""
	case claims.IsTutor:
		tut, err := api.deps.TutorSvc.GetByUserID(claims.Subject)
		if err != nil {
			return errors.Wrap(err, "finding tutor by user ID")
		}
		filter.TutorID = tut.ID
		filter.ParentID = ""
	case claims.IsAdmin:
		// admins may filter freely
	default:
		return errHttpForbidden
	}

	bookings, err := api.deps.BookingSvc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying bookings")
	}
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	return ctx.JSON(http.StatusOK, bookings)
}

func (api *bookingApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	bkg, err := api.deps.BookingSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding booking by ID")
	}

	// only the booking parties and admins may see it
	switch {
	case claims.IsAdmin:
	case claims.IsParent && bkg.ParentID == claims.Subject:
	case claims.IsTutor:
		tut, err := api.deps.TutorSvc.GetByUserID(claims.Subject)
		if err != nil || bkg.TutorID != tut.ID {
			return errHttpNotFound
		}
	default:
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, bkg)
}

func (api *bookingApi) approve(ctx echo.Context) error {
	return api.tutorAction(ctx, booking.ActionApprove)
}

func (api *bookingApi) decline(ctx echo.Context) error {
	return api.tutorAction(ctx, booking.ActionDecline)
}

func (api *bookingApi) tutorAction(ctx echo.Context, action string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tut, err := api.deps.TutorSvc.GetByUserID(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding tutor by user ID")
	}

	actor := booking.Actor{Role: booking.ActorTutor, ID: tut.ID}
	bkg, err := api.deps.BookingSvc.Transition(ctx.Param("id"), actor, action)
	if err != nil {
		return errors.Wrapf(err, "applying %q", action)
	}
	return ctx.JSON(http.StatusOK, bkg)
}

func (api *bookingApi) cancel(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	actor := booking.Actor{Role: booking.ActorParent, ID: claims.Subject}
	bkg, err := api.deps.BookingSvc.Transition(ctx.Param("id"), actor, booking.ActionCancel)
	if err != nil {
		return errors.Wrap(err, "cancelling booking")
	}
	return ctx.JSON(http.StatusOK, bkg)
}

func (api *bookingApi) complete(ctx echo.Context) error {
	bkg, err := api.deps.BookingSvc.Complete(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing booking")
	}
	return ctx.JSON(http.StatusOK, bkg)
}

func (api *bookingApi) earnings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tut, err := api.deps.TutorSvc.GetByUserID(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding tutor by user ID")
	}

	earnings, err := api.deps.BookingSvc.Earnings(tut.ID)
	if err != nil {
		return errors.Wrap(err, "computing earnings")
	}
	return ctx.JSON(http.StatusOK, earnings)
}
