package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

// AuthHandler authenticates provisioned users and administrators and
// issues access tokens.  There is no registration endpoint: accounts
// are seeded data.
type AuthHandler struct {
	Cfg    config.Config
	Users  ports.UserStore
	Admins ports.AdministratorStore
}

func NewAuthHandler(cfg config.Config, users ports.UserStore, admins ports.AdministratorStore) *AuthHandler {
	if users == nil || admins == nil {
		panic("nil store passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Admins: admins}
}

type loginReq struct {
	LoginName string `json:"login_name"`
	Password  string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login handles POST /v1/auth/login for ticket buyers.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.LoginName = strings.TrimSpace(req.LoginName)
	if req.LoginName == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login_name/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByLogin(ctx, req.LoginName)
	if err != nil || !utils.VerifyPassword(u.PassHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication_failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, "USER", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":       u.ID,
		"nickname": u.Nickname,
		"access":   tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// AdminLogin handles POST /v1/admin/login for administrators.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.LoginName = strings.TrimSpace(req.LoginName)
	if req.LoginName == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login_name/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByLogin(ctx, req.LoginName)
	if err != nil || !utils.VerifyPassword(a.PassHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication_failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, "ADMIN", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":       a.ID,
		"nickname": a.Nickname,
		"access":   tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
