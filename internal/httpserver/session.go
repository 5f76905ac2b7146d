package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_client/internal/events"
	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/logging"
	"github.com/Skotchmaster/shop_client/internal/models"
	"github.com/Skotchmaster/shop_client/internal/session"
)

type SessionHandler struct {
	Session  *session.Store
	Producer *events.Producer
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type sessionResponse struct {
	User          *models.User `json:"user"`
	Authenticated bool         `json:"authenticated"`
	Loading       bool         `json:"loading"`
	Error         string       `json:"error,omitempty"`
}

func (h *SessionHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.Session.Login(ctx, gateway.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return gatewayError(c, l, "login_error", err)
	}

	h.publish(ctx, c, "user_logged_in", user.ID)

	l.Info("login ok", "user_id", user.ID)
	return c.JSON(http.StatusOK, sessionResponse{User: user, Authenticated: true})
}

func (h *SessionHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.Session.Register(ctx, gateway.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		return gatewayError(c, l, "register_error", err)
	}

	h.publish(ctx, c, "user_registered", user.ID)

	l.Info("register ok", "user_id", user.ID)
	return c.JSON(http.StatusCreated, sessionResponse{User: user, Authenticated: true})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.logout")

	var userID int64
	if u := h.Session.CurrentUser(); u != nil {
		userID = u.ID
	}

	h.Session.Logout(ctx)

	if userID != 0 {
		h.publish(ctx, c, "user_logged_out", userID)
	}

	l.Info("logout ok")
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionResponse{
		User:          h.Session.CurrentUser(),
		Authenticated: h.Session.IsAuthenticated(),
		Loading:       h.Session.Loading(),
		Error:         h.Session.Err(),
	})
}

func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.update_profile")

	var req gateway.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.Session.UpdateProfile(ctx, req)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			l.Warn("update_profile_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		}
		return gatewayError(c, l, "update_profile_error", err)
	}

	l.Info("profile updated", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *SessionHandler) publish(ctx context.Context, c echo.Context, eventType string, userID int64) {
	event := map[string]any{
		"type":    eventType,
		"user_id": userID,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(pubCtx, fmt.Sprint(userID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
