package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/core/ports"
)

// UserHandler exposes the profile and admin account-management endpoints.
// Everything here sits behind the auth gate; the admin subset additionally
// requires the admin role.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type updateInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type updateAvatarRequest struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url" validate:"required,url"`
}

type updateRoleRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=user admin"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

// Me returns the caller's own profile, read through the session cache.
func (h *UserHandler) Me(c echo.Context) error {
	sess, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUserByID(c.Request().Context(), sess.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateInfo changes the caller's name and/or email.
func (h *UserHandler) UpdateInfo(c echo.Context) error {
	sess, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateInfo(c.Request().Context(), sess.UserID, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// ChangePassword verifies the old password before storing the new one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	sess, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), sess.UserID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated successfully"})
}

// UpdateAvatar replaces the caller's avatar reference.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	sess, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateAvatar(c.Request().Context(), sess.UserID, domain.Avatar{
		PublicID: req.PublicID,
		URL:      req.URL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// List returns all users. Admin only.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// UpdateRole changes a user's role. Admin only.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateRole(c.Request().Context(), req.UserID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Delete removes a user account and evicts its session. Admin only.
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user id required")
	}

	if err := h.authService.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
