package di

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"welfare-cms/internal/auth"
	authconfig "welfare-cms/internal/auth/config"
	"welfare-cms/internal/content"
	"welfare-cms/internal/content/adapter/persistence/memory"
	redispersistence "welfare-cms/internal/content/adapter/persistence/redis"
	contentconfig "welfare-cms/internal/content/config"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/shared/database"
	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/logger"
	"welfare-cms/internal/site"
	siteconfig "welfare-cms/internal/site/config"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
)

// Container owns every long-lived connection and module. Connections are
// opened once by Initialize and released by Close.
type Container struct {
	mu sync.RWMutex

	// Configuration
	ContentConfig *contentconfig.ContentConfig
	AuthConfig    *authconfig.Config
	SiteConfig    *siteconfig.Config

	// Connections, nil when the backend is not in use
	Mongo     *database.Mongo
	Firestore *firestore.Client
	Redis     *redis.Client

	Bus           *eventbus.EventBus
	AuthModule    *auth.AuthModule
	ContentModule *content.ContentModule
	SiteHandler   *site.Handler

	Logger logger.Logger
}

// NewContainer creates an empty container.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{
		Logger: log,
		Bus:    eventbus.NewEventBus(log),
	}
}

// Initialize builds the auth, content and site modules in dependency order.
// siteCfg may be nil to skip the public pages.
func (c *Container) Initialize(ctx context.Context, contentCfg *contentconfig.ContentConfig, authCfg *authconfig.Config, siteCfg *siteconfig.Config) error {
	if err := c.InitializeAuth(authCfg); err != nil {
		return err
	}
	if err := c.InitializeContent(ctx, contentCfg); err != nil {
		return err
	}
	if siteCfg == nil {
		return nil
	}
	return c.InitializeSite(siteCfg)
}

// InitializeAuth creates the admin authentication module.
func (c *Container) InitializeAuth(cfg *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	authModule, err := auth.NewAuthModule(cfg, c.Bus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthConfig = cfg
	c.AuthModule = authModule
	return nil
}

// InitializeContent opens the configured store backend and Redis, then builds
// the content module over them.
func (c *Container) InitializeContent(ctx context.Context, cfg *contentconfig.ContentConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg == nil {
		cfg = contentconfig.DefaultContentConfig()
	}

	stores, err := c.openStores(ctx, cfg)
	if err != nil {
		return err
	}

	opts := content.Options{Bus: c.Bus}
	if cfg.Redis.Enabled() {
		c.Redis = contentconfig.NewRedisClient(cfg.Redis)
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			c.Logger.WithFields(map[string]interface{}{
				"addr":  cfg.Redis.Addr,
				"error": err.Error(),
			}).Warn("Redis not reachable at start-up, cache misses will be served from the store")
		}
		opts.Cache = redispersistence.NewCache(c.Redis)
		opts.ChangeLog = redispersistence.NewChangeLog(c.Redis, cfg.Redis.ChangeLogMaxLen, c.Logger)
	} else {
		c.Logger.Info("REDIS_ADDR not set: caching disabled, change log kept in memory")
		opts.ChangeLog = memory.NewChangeLog(int(cfg.Redis.ChangeLogMaxLen))
	}

	contentModule, err := content.NewContentModule(cfg, stores, opts, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create content module: %w", err)
	}
	c.ContentConfig = cfg
	c.ContentModule = contentModule
	return nil
}

func (c *Container) openStores(ctx context.Context, cfg *contentconfig.ContentConfig) (content.Stores, error) {
	switch cfg.Backend {
	case contentconfig.BackendMongoDB:
		conn, err := database.ConnectMongo(ctx, cfg.Mongo, c.Logger)
		if err != nil {
			return content.Stores{}, err
		}
		c.Mongo = conn
		return content.NewMongoStores(conn, cfg.Collections, c.Logger), nil
	case contentconfig.BackendFirestore:
		client, err := database.ConnectFirestore(ctx, cfg.Firestore, c.Logger)
		if err != nil {
			return content.Stores{}, err
		}
		c.Firestore = client
		return content.NewFirestoreStores(client, cfg.Collections), nil
	case contentconfig.BackendMemory, "":
		c.Logger.Warn("Using in-memory store: content is lost on restart")
		return content.NewMemoryStores(), nil
	default:
		return content.Stores{}, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// InitializeSite creates the public page handler reading the API at cfg.BaseURL.
func (c *Container) InitializeSite(cfg *siteconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client := site.NewContentClient(cfg.BaseURL, cfg.FetchTimeout)
	handler, err := site.NewHandler(client, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create site handler: %w", err)
	}
	c.SiteConfig = cfg
	c.SiteHandler = handler
	return nil
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetContentModule returns the content module instance
func (c *Container) GetContentModule() *content.ContentModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ContentModule
}

// ChangeLog returns the change log the content module records to.
func (c *Container) ChangeLog() repository.ChangeLog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ContentModule == nil {
		return nil
	}
	return c.ContentModule.ChangeLog
}

// HealthCheck pings every backing service. The result maps a component name
// to its error, nil when healthy.
func (c *Container) HealthCheck(ctx context.Context) map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]error)
	if c.ContentModule != nil {
		for name, err := range c.ContentModule.Health(ctx) {
			result[name] = err
		}
	}
	if c.Redis != nil {
		result["changeLog"] = c.Redis.Ping(ctx).Err()
	}
	return result
}

// Close releases connections in reverse order of initialisation.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	var errs []error
	if c.ContentModule != nil && c.ContentModule.Feed != nil {
		c.ContentModule.Feed.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
		c.Redis = nil
	}
	if c.Firestore != nil {
		if err := c.Firestore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Firestore: %w", err))
		}
		c.Firestore = nil
	}
	if c.Mongo != nil {
		if err := c.Mongo.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		c.Mongo = nil
	}

	c.ContentModule = nil
	c.AuthModule = nil
	c.SiteHandler = nil

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %w", errors.Join(errs...))
	}
	c.Logger.Info("Container resources closed")
	return nil
}
