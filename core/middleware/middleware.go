package middleware

import (
	"context"
	"net/http"

	"interviewhub/core/constants"
	"interviewhub/core/controller"
	"interviewhub/core/errors"
	"interviewhub/core/utils"

	"github.com/labstack/echo/v4"
)

// TokenChecker is the slice of the auth service the middleware needs.
type TokenChecker interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type Middleware struct {
	authService TokenChecker
}

func NewMiddleware(authService TokenChecker) *Middleware {
	return &Middleware{authService: authService}
}

// AuthMiddleware validates the bearer token and stores the parsed claims in
// the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrMissingAuthorizationHeader, "missing or malformed authorization header")
			}

			blacklisted, err := m.authService.IsTokenBlacklisted(c.Request().Context(), token)
			if err == nil && blacklisted {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrUnauthorized, "token has been revoked")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrUnauthorized, "invalid or expired token")
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrInvalidTokenFormat, "token scope not valid for API access")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequireRoles rejects requests whose actor role is not in the allowed set.
// Must run after AuthMiddleware.
func (m *Middleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
			if !ok {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrUnauthorized, "user not authenticated")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return controller.NewErrorResponse(http.StatusForbidden,
					errors.ErrForbidden, "insufficient role for this resource")
			}
			return next(c)
		}
	}
}
