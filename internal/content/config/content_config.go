package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"welfare-cms/internal/shared/database"

	"github.com/caarlos0/env/v6"
)

// Store backends
const (
	BackendMongoDB   = "mongodb"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// CollectionConfig names the collections (or Firestore collection ids) used by the content module.
type CollectionConfig struct {
	Content     string `env:"CONTENT_COLLECTION" envDefault:"siteConfig"`
	Submissions string `env:"SUBMISSIONS_COLLECTION" envDefault:"submissions"`
	Albums      string `env:"ALBUMS_COLLECTION" envDefault:"galleryAlbums"`
	Images      string `env:"IMAGES_COLLECTION" envDefault:"galleryImages"`
}

// RedisConfig configures the optional response cache and change-log stream.
// An empty Addr disables Redis; the change log then lives in memory.
type RedisConfig struct {
	Addr            string        `env:"REDIS_ADDR"`
	Password        string        `env:"REDIS_PASSWORD"`
	Database        int           `env:"REDIS_DB" envDefault:"0"`
	EnableTLS       bool          `env:"REDIS_TLS" envDefault:"false"`
	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"15m"`
	ChangeLogMaxLen int64         `env:"CHANGE_LOG_MAX_LEN" envDefault:"1000"`
}

// Enabled reports whether a Redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Host is the host part of Addr, used as the TLS server name.
func (c RedisConfig) Host() string {
	host := c.Addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}

// ContentConfig holds all configuration for the content module.
type ContentConfig struct {
	Backend              string `env:"STORE_BACKEND" envDefault:"mongodb"`
	SubmissionRejectRule string `env:"SUBMISSION_REJECT_RULE"`

	Mongo       database.MongoConfig
	Firestore   database.FirestoreConfig
	Collections CollectionConfig
	Redis       RedisConfig
}

// LoadConfig loads configuration from environment variables and validates it.
func LoadConfig() (*ContentConfig, error) {
	cfg := &ContentConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load content configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend-specific requirements.
func (c *ContentConfig) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendMongoDB:
		if c.Mongo.URI == "" {
			return errors.New("MONGODB_URI environment variable is not set")
		}
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.New("FIRESTORE_PROJECT_ID environment variable is not set")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want mongodb, firestore or memory)", c.Backend)
	}
	if c.Redis.CacheTTL <= 0 {
		c.Redis.CacheTTL = 15 * time.Minute
	}
	if c.Redis.ChangeLogMaxLen <= 0 {
		c.Redis.ChangeLogMaxLen = 1000
	}
	return nil
}

// DefaultContentConfig returns an in-memory configuration for tests and local runs.
func DefaultContentConfig() *ContentConfig {
	return &ContentConfig{
		Backend: BackendMemory,
		Mongo: database.MongoConfig{
			URI:          "mongodb://localhost:27017",
			Database:     "welfare",
			Timeout:      10 * time.Second,
			Transactions: true,
		},
		Collections: CollectionConfig{
			Content:     "siteConfig",
			Submissions: "submissions",
			Albums:      "galleryAlbums",
			Images:      "galleryImages",
		},
		Redis: RedisConfig{
			CacheTTL:        15 * time.Minute,
			ChangeLogMaxLen: 1000,
		},
	}
}
