package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"welfare-cms/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds connection settings for the MongoDB backend
type MongoConfig struct {
	URI          string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	Database     string        `env:"MONGODB_DATABASE" envDefault:"welfare"`
	Timeout      time.Duration `env:"MONGODB_TIMEOUT" envDefault:"10s"`
	Transactions bool          `env:"MONGODB_TRANSACTIONS" envDefault:"true"`
	MaxPoolSize  uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"20"`
	MinPoolSize  uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"2"`
}

// Mongo owns the client lifecycle. It is opened once at start-up and shared by
// every repository until Close.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
	config   MongoConfig
	logger   logger.Logger
}

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, cfg MongoConfig, log logger.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.WithFields(map[string]interface{}{"database": cfg.Database}).Info("Connected to MongoDB")

	return &Mongo{
		Client:   client,
		Database: client.Database(cfg.Database),
		config:   cfg,
		logger:   log,
	}, nil
}

// TransactionsEnabled reports whether multi-document transactions may be used.
// Standalone servers do not support them.
func (m *Mongo) TransactionsEnabled() bool {
	return m.config.Transactions
}

// Ping checks the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	m.logger.Info("MongoDB connection closed")
	return nil
}
