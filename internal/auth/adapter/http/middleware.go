package http

import (
	"context"
	"strings"
	"time"

	"welfare-cms/internal/auth/usecase"
	"welfare-cms/internal/shared/contextkeys"
	"welfare-cms/internal/shared/logger"
	"welfare-cms/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/oklog/ulid/v2"
)

// RequestIDLocal is the fiber.Ctx Locals key the request id is stored under.
const RequestIDLocal = "requestid"

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
	log        logger.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string, log logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
		log:        log.WithComponent("auth-middleware"),
	}
}

// CORS middleware for the admin dashboard origins.
func (m *AuthMiddleware) CORS(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,X-Content-Fallback",
		AllowCredentials: allowOrigins != "*",
		MaxAge:           86400,
	})
}

// SecurityHeaders adds security headers
func (m *AuthMiddleware) SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RateLimiter limits requests per client IP with a sliding window. With
// failedOnly set, only responses with status >= 400 count.
func (m *AuthMiddleware) RateLimiter(max int, window time.Duration, failedOnly bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:                    max,
		Expiration:             window,
		LimiterMiddleware:      limiter.SlidingWindow{},
		SkipSuccessfulRequests: failedOnly,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "Too many requests. Please try again later.",
			})
		},
	})
}

// RequestID assigns a ULID to every request that arrives without an
// X-Request-ID header.
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: RequestIDLocal,
		Generator: func() string {
			return ulid.Make().String()
		},
	})
}

// RequestContext copies the request id from Locals into the user context so
// usecases and loggers can see it. It must run after RequestID.
func (m *AuthMiddleware) RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rid, ok := c.Locals(RequestIDLocal).(string); ok && rid != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), rid))
		}
		return c.Next()
	}
}

// Protect returns middleware that requires a valid admin token. When
// authentication is not configured every request passes.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.usecase.Enabled() {
			return c.Next()
		}

		token := ExtractToken(c, m.cookieName)
		if token == "" {
			return unauthorized(c, "Authentication required")
		}

		claims, err := m.usecase.ValidateToken(c.UserContext(), token)
		if err != nil {
			m.log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
				"path":  c.Path(),
				"error": err.Error(),
			}).Debug("Rejected admin token")
			return unauthorized(c, "Invalid token")
		}

		ctx := utils.WithAdminUser(c.UserContext(), claims.Username)
		ctx = context.WithValue(ctx, contextkeys.ClaimsKey, claims)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// ExtractToken reads the bearer token from the Authorization header, the auth
// cookie, or the token query parameter (used by websocket clients).
func ExtractToken(c *fiber.Ctx, cookieName string) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	return c.Query("token")
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": message,
	})
}
