package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/YasminAwad/Text2BPMN/internal/server"
	"github.com/YasminAwad/Text2BPMN/pkg/cache"
	"github.com/YasminAwad/Text2BPMN/pkg/pipeline"
	"github.com/YasminAwad/Text2BPMN/pkg/store"
)

// shutdownTimeout bounds how long in-flight requests may run after SIGTERM.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram HTTP API",
		Long: `Run the diagram HTTP API.

The server accepts process models over HTTP, runs the layout and merge
pipeline, and stores the resulting diagrams. Cache and store backends
(Redis, MongoDB) are configured through a TOML file; without one the
server uses a local file cache and an in-memory store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config, default :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML configuration file")

	return cmd
}

// runServe wires up the cache, store, and runner, then serves until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg Config) error {
	diagramCache, err := c.buildCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	diagramStore, err := buildStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer diagramStore.Close(context.Background())

	runner := pipeline.NewRunner(nil, diagramCache, nil, c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(runner, diagramStore, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("server listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildCache constructs the configured cache backend.
func (c *CLI) buildCache(ctx context.Context, cfg cacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	case cacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.Addr, cfg.Password, cfg.DB)
	default:
		return newCache(false)
	}
}

// buildStore constructs the configured store backend.
func buildStore(ctx context.Context, cfg storeConfig) (store.Store, error) {
	if cfg.Backend == storeBackendMongo {
		return store.NewMongoStore(ctx, cfg.URI, cfg.Database, cfg.Collection)
	}
	return store.NewMemoryStore(), nil
}
