package handler // handler package implements HTTP endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"movie-booking-catalog/internal/config"
	"movie-booking-catalog/internal/utils"
)

// AuthHandler implements admin authentication.  There is no user table in
// the catalog, so login checks the configured admin credential pair and
// issues a short-lived HS256 access token with the ADMIN role.
type AuthHandler struct {
	cfg config.Config
}

// NewAuthHandler builds an AuthHandler from the loaded configuration.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	Access tokenPart `json:"access"`
}

// Login handles POST /v1/auth/login.  It validates the email and password
// against ADMIN_EMAIL and the bcrypt hash of the admin password and returns
// a signed access token.  Wrong credentials always answer 401 without
// distinguishing which part was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	if email != strings.ToLower(h.cfg.AdminEmail) ||
		!utils.VerifyPassword(h.cfg.AdminPasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	access, err := utils.NewAccessToken(h.cfg.JWTSecret, email, "ADMIN", h.cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me handles GET /v1/admin/me and echoes the authenticated subject and role
// from the verified token.  Useful for tooling to check a stored token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"subject": c.Get("subject"),
		"role":    c.Get("role"),
	})
}
