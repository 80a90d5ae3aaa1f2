package webapi

import (
	"net/http"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/orcrobert/mpp/pkg/mpband/auth"
	"github.com/orcrobert/mpp/pkg/mpband/webapi/apimiddleware"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
)

type AuthController struct {
	userStor stor.UserStor
	issuer   *auth.TokenIssuer
}

func NewAuthController(userStor stor.UserStor, issuer *auth.TokenIssuer) *AuthController {
	return &AuthController{userStor: userStor, issuer: issuer}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  mpmodel.User `json:"user"`
}

func (c *AuthController) Login(ctx echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := c.userStor.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if !auth.VerifyPassword(req.Password, user.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := c.issuer.IssueToken(user)
	if err != nil {
		log.Errorf("Failed issuing token for user %d: %s", user.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: *user})
}

func (c *AuthController) Register(ctx echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Errorf("Failed hashing password: %s", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	user, err := c.userStor.CreateUser(&mpmodel.User{
		Email:    req.Email,
		Password: hashed,
		Role:     mpmodel.RoleUser,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}

	token, err := c.issuer.IssueToken(user)
	if err != nil {
		log.Errorf("Failed issuing token for user %d: %s", user.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, LoginResponse{Token: token, User: *user})
}

// Verify reports the user behind the request's bearer token. BearerTokenAuth
// has already rejected the request if the token is bad.
func (c *AuthController) Verify(ctx echo.Context) error {
	user := apimiddleware.GetUserFromContext(ctx)
	if user == nil {
		return echo.ErrUnauthorized
	}

	return ctx.JSON(http.StatusOK, user)
}
