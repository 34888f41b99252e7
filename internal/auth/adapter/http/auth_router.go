package http

import (
	"time"

	"welfare-cms/internal/auth/config"
	"welfare-cms/internal/auth/usecase"
	apperrors "welfare-cms/internal/shared/errors"
	"welfare-cms/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles the admin login endpoints.
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
	cfg     *config.Config
	log     logger.Logger
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, cfg *config.Config, log logger.Logger) *AuthHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHTTPHandler{
		usecase: uc,
		cfg:     cfg,
		log:     log.WithComponent("auth-http"),
	}
}

// RegisterRoutes mounts /api/admin/login, /logout and /session. loginLimiter
// may be nil.
func (h *AuthHTTPHandler) RegisterRoutes(router fiber.Router, loginLimiter fiber.Handler) {
	admin := router.Group("/api/admin")
	if loginLimiter != nil {
		admin.Post("/login", loginLimiter, h.Login)
	} else {
		admin.Post("/login", h.Login)
	}
	admin.Post("/logout", h.Logout)
	admin.Get("/session", h.Session)
}

// Login handles admin login
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
	}

	response, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}

	h.setCookie(c, response.Token, response.ExpiresAt)
	return c.Status(fiber.StatusOK).JSON(response)
}

// Logout clears the auth cookie. Tokens are stateless and stay valid until
// they expire.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Session reports the admin behind the presented token.
func (h *AuthHTTPHandler) Session(c *fiber.Ctx) error {
	if !h.usecase.Enabled() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"authenticated": false,
			"authEnabled":   false,
		})
	}

	token := ExtractToken(c, h.cfg.CookieName)
	if token == "" {
		return unauthorized(c, "Authentication required")
	}

	session, err := h.usecase.Session(c.UserContext(), token)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"authenticated": true,
		"authEnabled":   true,
		"username":      session.Username,
		"issuedAt":      session.IssuedAt,
		"expiresAt":     session.ExpiresAt,
	})
}

func (h *AuthHTTPHandler) respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	code, message := "internal_error", "Internal server error"
	if appErr, ok := apperrors.AsAppError(err); ok {
		code, message = appErr.Code, appErr.Message
	}
	if status >= fiber.StatusInternalServerError {
		h.log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		}).Error("Auth request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  expiresAt,
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: h.cfg.CookieSameSite,
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: h.cfg.CookieSameSite,
	})
}
