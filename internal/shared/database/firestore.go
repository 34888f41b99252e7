package database

import (
	"context"
	"errors"
	"fmt"

	"welfare-cms/internal/shared/logger"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreConfig holds settings for the Firestore backend. When
// FIRESTORE_EMULATOR_HOST is set the client library talks to the emulator.
type FirestoreConfig struct {
	ProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	CredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
}

// ConnectFirestore opens a Firestore client for cfg.ProjectID.
func ConnectFirestore(ctx context.Context, cfg FirestoreConfig, log logger.Logger) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("FIRESTORE_PROJECT_ID environment variable is not set")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	log.WithFields(map[string]interface{}{"project": cfg.ProjectID}).Info("Connected to Firestore")
	return client, nil
}
