package echoapi

import (
	"github.com/labstack/echo/v4"
)

// adminMiddleware restricts access to admin users.
func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(func(claims Claims) bool { return claims.IsAdmin })
}

// parentMiddleware restricts access to parent users.
func parentMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(func(claims Claims) bool { return claims.IsParent })
}

// tutorMiddleware restricts access to tutor users.
func tutorMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(func(claims Claims) bool { return claims.IsTutor })
}

func roleMiddleware(allowed func(Claims) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !allowed(claims) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
