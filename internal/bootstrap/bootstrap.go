// Package bootstrap provides dependency initialization for the demo generator.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/bdpitch/odyssey-demogen/internal/config"
	"github.com/bdpitch/odyssey-demogen/internal/odyssey"
	"github.com/bdpitch/odyssey-demogen/internal/pipeline"
	"github.com/bdpitch/odyssey-demogen/internal/storage"
	"github.com/bdpitch/odyssey-demogen/internal/worklist"
)

// Dependencies holds all initialized dependencies for the CLI.
type Dependencies struct {
	Client odyssey.Client
	Runner *pipeline.Runner
	Store  storage.Store
}

// NewDependencies creates and initializes all dependencies for a batch run.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	store, err := initStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	downloader := pipeline.NewDownloader(nil)

	policy := pipeline.PollPolicy{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.PollMaxAttempts,
	}

	runner := pipeline.NewRunner(
		client,
		downloader,
		store,
		pipeline.WithPollPolicy(policy),
		pipeline.WithObserver(pipeline.NewLogObserver(logger)),
		pipeline.WithLogger(logger),
		pipeline.WithMirror(cfg.S3Enabled()),
	)

	return &Dependencies{
		Client: client,
		Runner: runner,
		Store:  store,
	}, nil
}

// NewClient creates just the Odyssey client, for commands that don't run
// the batch (status, list, cancel).
func NewClient(cfg *config.Config) (odyssey.Client, error) {
	return newClient(cfg)
}

// Worklist resolves the batch worklist: the YAML file from configuration
// when set, the built-in demo set otherwise.
func Worklist(cfg *config.Config) ([]worklist.WorkItem, error) {
	if cfg.WorklistPath != "" {
		items, err := worklist.Load(cfg.WorklistPath)
		if err != nil {
			return nil, fmt.Errorf("load worklist: %w", err)
		}
		return items, nil
	}
	return worklist.Default(), nil
}

func newClient(cfg *config.Config) (odyssey.Client, error) {
	opts := []odyssey.ClientOption{odyssey.WithAPIKey(cfg.OdysseyAPIKey)}
	if cfg.OdysseyBaseURL != "" {
		opts = append(opts, odyssey.WithBaseURL(cfg.OdysseyBaseURL))
	}

	client, err := odyssey.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create Odyssey client: %w", err)
	}
	return client, nil
}

// initStore creates the appropriate artifact store based on configuration.
func initStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Store(cfg.OutputDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 store: %w", err)
		}
		logger.Info("S3 mirror configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStore(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}
	logger.Info("local artifact store configured",
		slog.String("output_dir", cfg.OutputDir),
	)
	return localStore, nil
}
