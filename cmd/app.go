package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"civicreporter-be/config"
	"civicreporter-be/store"
)

// newLogger installs the process-wide slog logger: JSON in release mode,
// text otherwise.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.GinMode == gin.ReleaseMode {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

type backend struct {
	store    store.ContentStore
	uploader store.MediaUploader
	close    func()
}

// openBackend connects the configured content store.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, db, err := config.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ms := store.NewMongoStore(db)
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)
		return &backend{
			store:    ms,
			uploader: ms,
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.BackendCosmic:
		cs := store.NewCosmicStore(cfg.CosmicAPIURL, cfg.CosmicBucketSlug, cfg.CosmicReadKey, cfg.CosmicWriteKey)
		logger.Info("using Cosmic content store", "bucket", cfg.CosmicBucketSlug)
		return &backend{store: cs, uploader: cs, close: func() {}}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
