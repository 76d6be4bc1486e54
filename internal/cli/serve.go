package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dgmlkit/internal/api"
	"github.com/matzehuels/dgmlkit/pkg/cache"
	"github.com/matzehuels/dgmlkit/pkg/store"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for building and fetching documents.

Redis (shared cache) and MongoDB (persistence) are used when configured;
otherwise the server falls back to the local file cache and an in-memory
store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, configPath, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "listen", "", "listen address (default from config, then :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, configPath string, noCache bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr == "" {
		addr = cfg.Listen
	}

	responseCache, err := c.newServeCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer responseCache.Close()

	documents, err := c.newServeStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer documents.Close(context.Background())

	server := api.New(api.Config{
		Addr:   addr,
		Cache:  responseCache,
		Store:  documents,
		Logger: c.Logger,
	})
	return server.ListenAndServe(ctx)
}

func (c *CLI) newServeCache(ctx context.Context, cfg Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		c.Logger.Info("using redis cache", "addr", cfg.Redis.Addr)
		return rc, nil
	}
	return newCache(false)
}

func (c *CLI) newServeStore(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.Mongo.URI == "" {
		c.Logger.Warn("no mongo uri configured, documents will not survive restarts")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoOptions{
		URI:        cfg.Mongo.URI,
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.Logger.Info("using mongodb store", "database", cfg.Mongo.Database)
	return ms, nil
}
