package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/xid"

	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

const oauthStateCookie = "oauth_state"

// GoogleOAuth is the slice of the OAuth provider the handler needs.
type GoogleOAuth interface {
	Enabled() bool
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*ports.GoogleProfile, error)
}

type AuthHandler struct {
	authService ports.AuthService
	google      GoogleOAuth
}

func NewAuthHandler(authService ports.AuthService, google GoogleOAuth) *AuthHandler {
	return &AuthHandler{authService: authService, google: google}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"omitempty,oneof=student teacher"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=student teacher"`
}

type loginResponse struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	RedirectTo string `json:"redirectTo"`
}

// Register creates a new local account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		switch err {
		case domain.ErrUserExists:
			return c.JSON(http.StatusConflict, map[string]string{"error": "Email already exists."})
		case domain.ErrInvalidCredentials:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required."})
		}
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully!"})
}

// Login authenticates a local account and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials."})
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:      result.Token,
		Role:       result.Role,
		RedirectTo: result.RedirectTo,
	})
}

// GoogleStart redirects the browser to Google's consent screen. A random
// state is pinned in a short-lived cookie and checked on callback.
//
// @Summary      Start Google login
// @Tags         auth
// @Success      302
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleStart(c echo.Context) error {
	if h.google == nil || !h.google.Enabled() {
		return echo.NewHTTPError(http.StatusNotFound, "google login is not configured")
	}

	state := xid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

// GoogleCallback completes the OAuth flow: state check, code exchange, user
// upsert, then a redirect to the role's dashboard carrying the session token.
//
// @Summary      Google login callback
// @Tags         auth
// @Success      302
// @Router       /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if h.google == nil || !h.google.Enabled() {
		return echo.NewHTTPError(http.StatusNotFound, "google login is not configured")
	}

	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return c.Redirect(http.StatusFound, "/login.html")
	}

	code := c.QueryParam("code")
	if code == "" {
		return c.Redirect(http.StatusFound, "/login.html")
	}

	profile, err := h.google.Exchange(c.Request().Context(), code)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login.html")
	}

	result, err := h.authService.LoginWithGoogle(c.Request().Context(), *profile)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login.html")
	}

	return c.Redirect(http.StatusFound, result.RedirectTo+"?token="+result.Token)
}
