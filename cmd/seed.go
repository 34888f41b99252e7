package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"welfare-cms/internal/content"
	contentconfig "welfare-cms/internal/content/config"
	"welfare-cms/internal/di"
	"welfare-cms/internal/shared/logger"
	"welfare-cms/internal/shared/utils"

	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load site content from a YAML file into the configured store",
	Long: `seed writes the home, about, contact, members, gallery and submissions
sections of a YAML file through the same validation and write modes as the
HTTP API. Missing sections are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context(), seedFile)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(ctx context.Context, path string) error {
	log := logger.New()

	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()

	f, err := content.ParseSeed(fh)
	if err != nil {
		return err
	}

	cfg, err := contentconfig.LoadConfig()
	if err != nil {
		return err
	}

	container := di.NewContainer(log)
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = container.InitializeContent(initCtx, cfg)
	cancel()
	if err != nil {
		_ = container.Close(context.Background())
		return err
	}
	defer container.Close(context.Background())

	ctx = utils.WithAdminUser(ctx, "seed")
	result, err := content.Seed(ctx, container.GetContentModule().Usecase, f)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"file":        path,
		"documents":   result.Documents,
		"albums":      result.Albums,
		"images":      result.Images,
		"submissions": result.Submissions,
	}).Info("Seed complete")
	return nil
}
