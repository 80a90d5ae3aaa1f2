package apimiddleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/orcrobert/mpp/pkg/mpband/auth"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
)

type GetUserByIDFN func(int) (*mpmodel.User, error)

type BearerTokenConfig struct {
	Skipper     middleware.Skipper
	Issuer      *auth.TokenIssuer
	GetUserByID GetUserByIDFN

	// Optional lets requests without a token through without setting a
	// user. Handlers that log user activity check for the user's presence.
	Optional bool
}

func BearerTokenAuth(config BearerTokenConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper != nil && config.Skipper(c) {
				return next(c)
			}

			tokenString, err := tokenFromRequest(c)
			if err != nil {
				if config.Optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			claims, err := config.Issuer.VerifyToken(tokenString)
			if err != nil {
				return echo.ErrUnauthorized
			}

			user, err := config.GetUserByID(claims.UserID)
			switch {
			case err != nil:
				return echo.ErrUnauthorized
			case user == nil:
				return echo.ErrUnauthorized
			default:
				c.Set("User", *user)
				return next(c)
			}
		}
	}
}

// GetUserFromContext returns the authenticated user set by BearerTokenAuth,
// or nil when the request carried no valid token.
func GetUserFromContext(c echo.Context) *mpmodel.User {
	user, ok := c.Get("User").(mpmodel.User)
	if !ok {
		return nil
	}

	return &user
}

func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := GetUserFromContext(c)
		if user == nil || !user.IsAdmin() {
			return echo.ErrForbidden
		}

		return next(c)
	}
}

func tokenFromRequest(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", fmt.Errorf("no Authorization header")
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", fmt.Errorf("Authorization header is not a bearer token")
	}

	return token, nil
}
