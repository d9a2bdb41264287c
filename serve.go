package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drivewiki/drivewiki/internal/config"
	"github.com/drivewiki/drivewiki/internal/index"
	"github.com/drivewiki/drivewiki/internal/metrics"
	"github.com/drivewiki/drivewiki/internal/mover"
	"github.com/drivewiki/drivewiki/internal/pagecache"
	"github.com/drivewiki/drivewiki/internal/store"
	"github.com/drivewiki/drivewiki/internal/web"
)

var (
	flagListen       string
	flagSyncInterval time.Duration
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Starts the HTTP server: cached pages, the folder tree, and the
move endpoint. The index is refreshed from Drive on startup and then
periodically.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
	cmd.Flags().DurationVar(&flagSyncInterval, "sync-interval", 5*time.Minute,
		"background index refresh interval (0 disables)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()

	if err := requireRootFolder(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := buildDriveClient(ctx, logger)
	if err != nil {
		return err
	}

	idx := index.New(resolvedCfg.Drive.RootFolderID, rootName())

	cache, mirror, cleanup, err := buildCache(ctx, idx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	syncer := index.NewSyncer(client, idx, mirror, listOptions(), logger)

	// A cold index is fatal; a stale warm one only warrants a warning.
	if err := syncer.Refresh(ctx); err != nil {
		if idx.Empty() {
			return fmt.Errorf("initial index refresh: %w", err)
		}

		logger.Warn("initial index refresh failed, serving persisted snapshot", "error", err)
	}

	mv := mover.New(client, idx, cache, mover.Config{
		RootID:      resolvedCfg.Drive.RootFolderID,
		TeamDriveID: resolvedCfg.Drive.TeamDriveID,
		Mode:        driveMode(),
	}, logger)

	server := web.New(idx, index.NewTreeBuilder(idx, syncer), cache, client, mv, metrics.New(), logger)

	if flagSyncInterval > 0 {
		go resyncLoop(ctx, syncer, flagSyncInterval, logger)
	}

	listen := resolvedCfg.Server.Listen
	if flagListen != "" {
		listen = flagListen
	}

	logger.Info("drivewiki starting",
		"listen", listen,
		"root_folder", resolvedCfg.Drive.RootFolderID,
		"mode", describeMode(),
		"cache_backend", resolvedCfg.Cache.Backend,
	)

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Start(listen)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	return server.Shutdown(context.Background())
}

// buildCache constructs the rendered-page cache for the configured backend.
// The sqlite backend doubles as the index mirror store and warms the index
// from the persisted snapshot.
func buildCache(
	ctx context.Context, idx *index.Index, logger *slog.Logger,
) (pagecache.Store, index.MirrorStore, func(), error) {
	if resolvedCfg.Cache.Backend == config.BackendMemory {
		mem, err := pagecache.NewMemory(resolvedCfg.Cache.MaxEntries)
		if err != nil {
			return nil, nil, nil, err
		}

		return mem, nil, func() {}, nil
	}

	st, err := store.Open(resolvedCfg.Cache.DBPath, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Warn("closing store", "error", closeErr)
		}
	}

	resources, err := st.LoadResources(ctx)
	if err != nil {
		cleanup()

		return nil, nil, nil, err
	}

	if len(resources) > 0 {
		if err := idx.Replace(resources); err != nil {
			logger.Warn("persisted snapshot rejected, will rebuild from remote", "error", err)
		}
	}

	return st, st, cleanup, nil
}

// resyncLoop refreshes the index on a fixed interval until ctx is cancelled.
// Failures are logged and retried on the next tick; the previous snapshot
// stays live.
func resyncLoop(ctx context.Context, syncer *index.Syncer, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := syncer.Refresh(ctx); err != nil {
				logger.Warn("background index refresh failed", "error", err)
			}
		}
	}
}
