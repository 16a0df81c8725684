package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/core/ports"
)

// AuthHandler exposes the registration, activation, and session lifecycle
// endpoints.
type AuthHandler struct {
	authService   ports.AuthService
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerResponse struct {
	ActivationToken string `json:"activation_token"`
	Message         string `json:"message"`
}

type activateRequest struct {
	ActivationToken string `json:"activation_token" validate:"required"`
	ActivationCode  string `json:"activation_code" validate:"required,len=4"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type socialAuthRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"required,email"`
	AvatarURL string `json:"avatar_url"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Register starts an activation-gated registration.
//
// @Summary      Register a new account (pending activation)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	activationToken, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid registration details")
		}
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		ActivationToken: activationToken,
		Message:         "Please check your email " + req.Email + " to activate your account.",
	})
}

// Activate consumes an activation token and code and creates the account.
//
// @Summary      Activate a registered account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      activateRequest  true  "Activation token and code"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/activate [post]
func (h *AuthHandler) Activate(c echo.Context) error {
	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Activate(c.Request().Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// Login authenticates credentials and sets both token cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setAuthCookies(c, result.Tokens, h.secureCookies)
	return c.JSON(http.StatusOK, userResponse{User: result.User})
}

// SocialAuth logs in an externally authenticated identity, creating the
// account on first sight.
//
// @Summary      Social login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      socialAuthRequest  true  "Provider identity"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/users/social-auth [post]
func (h *AuthHandler) SocialAuth(c echo.Context) error {
	var req socialAuthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.SocialAuth(c.Request().Context(), req.Name, req.Email, domain.Avatar{URL: req.AvatarURL})
	if err != nil {
		return err
	}

	setAuthCookies(c, result.Tokens, h.secureCookies)
	return c.JSON(http.StatusOK, userResponse{User: result.User})
}

// Logout expires both cookies and deletes the session entry. It succeeds
// even when the entry was already gone.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), sess.UserID); err != nil {
		return err
	}

	clearAuthCookies(c, h.secureCookies)
	return c.JSON(http.StatusOK, map[string]string{"message": "user logged out successfully"})
}

// Refresh rotates both tokens from the refresh cookie. Every failure on
// this path is a 400: the client's remedy is a fresh login, not a retry.
//
// @Summary      Rotate access and refresh tokens
// @Tags         auth
// @Produce      json
// @Success      200  {object}  refreshResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/users/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token missing")
	}

	result, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrTokenInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, "could not refresh the token")
		}
		return err
	}

	setAuthCookies(c, result.Tokens, h.secureCookies)
	return c.JSON(http.StatusOK, refreshResponse{AccessToken: result.Tokens.AccessToken})
}
