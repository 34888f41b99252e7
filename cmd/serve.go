package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	authconfig "welfare-cms/internal/auth/config"
	contentconfig "welfare-cms/internal/content/config"
	"welfare-cms/internal/di"
	apperrors "welfare-cms/internal/shared/errors"
	"welfare-cms/internal/shared/logger"
	siteconfig "welfare-cms/internal/site/config"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host             string        `env:"SERVER_HOST" envDefault:"localhost"`
	Port             string        `env:"SERVER_PORT" envDefault:"3000"`
	CORSAllowOrigins string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	BodyLimitMB      int           `env:"BODY_LIMIT_MB" envDefault:"4"`
	StaticDir        string        `env:"STATIC_DIR" envDefault:"./public"`
	SubmitRateLimit  int           `env:"SUBMIT_RATE_LIMIT" envDefault:"10"`
	SubmitRateWindow time.Duration `env:"SUBMIT_RATE_WINDOW" envDefault:"1m"`
	ProxyHeader      string        `env:"PROXY_HEADER" envDefault:"X-Forwarded-For"`
	TrustedProxies   []string      `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1,::1"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the content API and the public site",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	appLogger := logger.New()
	logger.SetDefault(appLogger)

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		return fmt.Errorf("failed to load server configuration: %w", err)
	}
	contentCfg, err := contentconfig.LoadConfig()
	if err != nil {
		return err
	}
	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		return err
	}
	siteCfg, err := siteconfig.LoadConfig()
	if err != nil {
		return err
	}
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer(appLogger)
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = container.Initialize(initCtx, contentCfg, authCfg, siteCfg)
	cancel()
	if err != nil {
		_ = container.Close(context.Background())
		return err
	}
	defer func() {
		if err := container.Close(context.Background()); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	app := newApp(container, serverCfg, appLogger)

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.WithFields(map[string]interface{}{
		"addr":    serverAddr,
		"backend": contentCfg.Backend,
		"auth":    container.GetAuthModule().Enabled(),
	}).Info("Starting HTTP server")

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			return fmt.Errorf("server startup failed: %w", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
	return nil
}

// newApp builds the Fiber application with middleware and every module's routes.
func newApp(container *di.Container, cfg *ServerConfig, log logger.Logger) *fiber.App {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 4
	}
	app := fiber.New(fiber.Config{
		AppName:      "welfare-cms",
		BodyLimit:    bodyLimit * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler(log),
		// c.IP() honours ProxyHeader only when the peer is a trusted proxy.
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	})

	authModule := container.GetAuthModule()
	mw := authModule.GetMiddleware()

	app.Use(recover.New())
	app.Use(mw.RequestID())
	app.Use(mw.RequestContext())
	app.Use(mw.SecurityHeaders())
	app.Use(mw.CORS(cfg.CORSAllowOrigins))

	app.Get("/health", healthHandler(container, log))

	authModule.RegisterRoutes(app)
	log.Info("Auth routes registered")

	app.Use("/api/contact/submit", mw.RateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow, false))
	container.GetContentModule().RegisterRoutes(app, authModule.Protect())
	log.Info("Content routes registered")

	if container.SiteHandler != nil {
		container.SiteHandler.RegisterRoutes(app, mw.RateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow, false))
		app.Static("/", cfg.StaticDir)
		log.Info("Site routes registered")
	}
	return app
}

func healthHandler(container *di.Container, log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		status := fiber.StatusOK
		components := fiber.Map{}
		for name, err := range container.HealthCheck(ctx) {
			if err != nil {
				status = fiber.StatusServiceUnavailable
				components[name] = err.Error()
				log.WithContext(ctx).WithFields(map[string]interface{}{
					"component": name,
					"error":     err.Error(),
				}).Error("Health check failed")
				continue
			}
			components[name] = "ok"
		}

		overall := "HEALTHY"
		if status != fiber.StatusOK {
			overall = "UNHEALTHY"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":     overall,
			"timestamp":  time.Now().UTC(),
			"components": components,
		})
	}
}

// errorHandler renders errors that escape handlers with the API error body.
func errorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error":   codeForStatus(fiberErr.Code),
				"message": fiberErr.Message,
			})
		}
		if appErr, ok := apperrors.AsAppError(err); ok {
			return c.Status(appErr.HTTPCode).JSON(fiber.Map{
				"error":   appErr.Code,
				"message": appErr.Message,
			})
		}

		log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		}).Error("Unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Internal Server Error",
		})
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case fiber.StatusTooManyRequests:
		return "rate_limited"
	case fiber.StatusBadRequest:
		return "invalid_request"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	default:
		if status >= 500 {
			return "internal_error"
		}
		return "error"
	}
}
