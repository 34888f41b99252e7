package auth

import (
	"fmt"

	authhttp "welfare-cms/internal/auth/adapter/http"
	"welfare-cms/internal/auth/adapter/security"
	"welfare-cms/internal/auth/config"
	"welfare-cms/internal/auth/domain/repository"
	"welfare-cms/internal/auth/usecase"
	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthModule wires the admin authentication stack.
type AuthModule struct {
	usecase    *usecase.AuthUsecase
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule builds the module. When cfg has no secret or password hash
// the module runs in open mode and Protect lets every request through.
func NewAuthModule(cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) (*AuthModule, error) {
	if log == nil {
		log = logger.Nop()
	}

	var tokenSvc repository.TokenService
	if cfg.Enabled() {
		svc, err := security.NewJWTokenService(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		tokenSvc = svc
	} else {
		log.WithComponent("auth").Warn("JWT_SECRET_KEY or ADMIN_PASSWORD_HASH not set: admin routes are open")
	}

	uc := usecase.NewAuthUsecase(cfg, tokenSvc, security.BcryptVerifier{}, bus, log)

	return &AuthModule{
		usecase:    uc,
		handler:    authhttp.NewAuthHTTPHandler(uc, cfg, log),
		middleware: authhttp.NewAuthMiddleware(uc, cfg.CookieName, log),
		config:     cfg,
	}, nil
}

// RegisterRoutes registers the login endpoints with a failed-attempt limiter.
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	limiter := am.middleware.RateLimiter(am.config.LoginMaxAttempts, am.config.LoginWindow, true)
	am.handler.RegisterRoutes(router, limiter)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// Protect is shorthand for GetMiddleware().Protect().
func (am *AuthModule) Protect() fiber.Handler {
	return am.middleware.Protect()
}

// Enabled reports whether admin authentication is enforced.
func (am *AuthModule) Enabled() bool {
	return am.usecase.Enabled()
}
