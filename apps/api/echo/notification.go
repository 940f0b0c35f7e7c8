package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	notifsvc "github.com/tutorhub/backend/services/notification"
)

type notificationApi struct {
	deps ServerDeps
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := notificationApi{deps: deps}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.query)
	ng.POST("/read", api.markAllRead)
	ng.POST("/:id/read", api.markRead)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, NotificationsResponse{
		Notifications: api.deps.Notifs.Query(claims.Subject),
		UnreadCount:   api.deps.Notifs.UnreadCount(claims.Subject),
	})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	api.deps.Notifs.MarkRead(claims.Subject, ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	api.deps.Notifs.MarkAllRead(claims.Subject)
	return ctx.NoContent(http.StatusNoContent)
}

type NotificationsResponse struct {
	Notifications []notifsvc.Notification `json:"notifications"`
	UnreadCount   int                     `json:"unread_count"`
}
