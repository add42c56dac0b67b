// Package handler contains the echo handlers behind every API route. Handlers
// bind and validate input, call the services, and shape the success
// responses; everything that fails leaves through the central error handler.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mbelkin/geoauth/internal/models"
	"github.com/mbelkin/geoauth/internal/server/api/httperr"
	"github.com/mbelkin/geoauth/internal/server/api/middleware"
	"github.com/mbelkin/geoauth/internal/server/metrics"
	"github.com/mbelkin/geoauth/internal/server/users"
)

// UserService is the account surface the auth handlers need. users.Service
// satisfies it.
type UserService interface {
	Register(ctx context.Context, email, password string) (string, *users.User, error)
	Login(ctx context.Context, email, password string) (string, *users.User, error)
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type AuthHandler struct {
	users UserService
}

func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	User models.AuthUser `json:"user"`
}

// Login verifies credentials and returns a freshly minted bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidJSON()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, _, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Register creates an account and returns a token, so a fresh registration
// behaves like a login.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidJSON()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, _, err := h.users.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.users.GetByID(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: models.AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}})
}

func errInvalidJSON() error {
	return httperr.New(http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
}
