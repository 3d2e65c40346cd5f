package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/cache"
	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/controller"
	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/core/utils"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the Bearer token, rejects blacklisted tokens and
// puts the parsed claims into the echo context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}
			token := parts[1]

			blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
			if err != nil {
				logger.Error("Middleware:Auth:IsTokenBlacklisted:Error", "error", err)
				return controller.NewErrorResponse(503, errors.ErrStoreUnavailable, "failed to verify token")
			}
			if blacklisted {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token has been revoked")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token scope not allowed here")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
