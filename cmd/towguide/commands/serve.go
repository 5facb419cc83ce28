package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stonebridge-motors/towguide/internal/api"
	"github.com/stonebridge-motors/towguide/internal/cache"
	"github.com/stonebridge-motors/towguide/internal/guide"
	"github.com/stonebridge-motors/towguide/internal/resolve"
	"github.com/stonebridge-motors/towguide/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve capacity lookups over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	profile, err := guide.ProfileForYear(cfg.Guide.Year)
	if err != nil {
		return err
	}

	doc, err := guide.Load(cfg.Guide.DocumentPath)
	if err != nil {
		return fmt.Errorf("load guide document: %w", err)
	}
	logger.Info().Str("document", cfg.Guide.DocumentPath).Int("models", len(doc.Models)).Msg("guide document loaded")

	db, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	var cacheClient cache.Client
	switch cfg.Cache.Driver {
	case "redis":
		cacheClient, err = cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
	default:
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
	defer cacheClient.Close()

	repo := storage.NewVehicleRepository(db)
	resolver := resolve.NewResolver(doc, profile, logger)
	service := api.NewLookupService(repo, resolver, cacheClient, cfg.Cache.TTL, logger)

	server := api.NewServer(cfg.Server, logger, service)
	return server.Run(ctx)
}
