package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core/child"
)

type childApi struct {
	deps ServerDeps
}

func registerChildAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := childApi{deps: deps}

	cg := g.Group("/children", jwt, parentMiddleware())
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
}

// Handlers

func (api *childApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data child.NewChild
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChild")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	chd, err := api.deps.ChildSvc.Create(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating child")
	}
	return ctx.JSON(http.StatusCreated, chd)
}

func (api *childApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	children, err := api.deps.ChildSvc.QueryByParent(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying children")
	}
	if children == nil {
		children = []child.Child{}
	}
	return ctx.JSON(http.StatusOK, children)
}

func (api *childApi) retrieve(ctx echo.Context) error {
	chd, err := api.ownChild(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, chd)
}

func (api *childApi) update(ctx echo.Context) error {
	chd, err := api.ownChild(ctx)
	if err != nil {
		return err
	}

	var data child.UpdateChild
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChild")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	chd, err = api.deps.ChildSvc.Update(chd.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating child")
	}
	return ctx.JSON(http.StatusOK, chd)
}

// ownChild fetches the child and hides other parents' children behind a 404.
func (api *childApi) ownChild(ctx echo.Context) (child.Child, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return child.Child{}, err
	}

	chd, err := api.deps.ChildSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return child.Child{}, errors.Wrap(err, "finding child by ID")
	}
	if chd.ParentID != claims.Subject {
		return child.Child{}, errHttpNotFound
	}
	return chd, nil
}
