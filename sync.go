package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drivewiki/drivewiki/internal/config"
	"github.com/drivewiki/drivewiki/internal/index"
	"github.com/drivewiki/drivewiki/internal/store"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the local metadata mirror from Drive",
		Long: `Walks the remote folder tree and rebuilds the metadata mirror.
With the sqlite backend the snapshot is persisted so the next serve starts warm.`,
		Args: cobra.NoArgs,
		RunE: runSync,
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := buildLogger()

	if err := requireRootFolder(); err != nil {
		return err
	}

	client, err := buildDriveClient(ctx, logger)
	if err != nil {
		return err
	}

	idx := index.New(resolvedCfg.Drive.RootFolderID, rootName())

	var mirror index.MirrorStore

	if resolvedCfg.Cache.Backend == config.BackendSQLite {
		st, err := store.Open(resolvedCfg.Cache.DBPath, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		mirror = st
	}

	syncer := index.NewSyncer(client, idx, mirror, listOptions(), logger)
	if err := syncer.Refresh(ctx); err != nil {
		return err
	}

	fmt.Printf("Synced %d resources\n", len(idx.Resources()))

	return nil
}
