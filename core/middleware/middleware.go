package middleware

import (
	"net/http"
	"strings"

	"bookwise/core/constants"
	"bookwise/core/errors"
	"bookwise/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the bearer token on private routes and stores
// the parsed claims on the echo context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing authorization header", nil))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrInvalidTokenFormat, "authorization header must be 'Bearer {token}'", nil))
			}

			claims, err := utils.ValidateAndParseToken(parts[1])
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return c.JSON(http.StatusUnauthorized, ae)
				}
				return c.JSON(http.StatusUnauthorized,
					errors.NewAppError(errors.ErrUnauthorized, "invalid token", err))
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
