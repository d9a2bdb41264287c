package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drivewiki/drivewiki/internal/config"
	"github.com/drivewiki/drivewiki/internal/index"
	"github.com/drivewiki/drivewiki/internal/mover"
	"github.com/drivewiki/drivewiki/internal/pagecache"
	"github.com/drivewiki/drivewiki/internal/store"
)

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <file-id> <destination-folder-id|trash>",
		Short: "Move a file to another folder, or trash it",
		Long: `Moves a Drive file under a new parent folder and relocates its cached
page, printing the file's new public path. The destination "trash" moves the
file to the Drive trash instead.`,
		Args: cobra.ExactArgs(2),
		RunE: runMove,
	}
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := buildLogger()

	fileID, destinationID := args[0], args[1]

	if err := requireRootFolder(); err != nil {
		return err
	}

	client, err := buildDriveClient(ctx, logger)
	if err != nil {
		return err
	}

	idx := index.New(resolvedCfg.Drive.RootFolderID, rootName())

	var cache pagecache.Store

	if resolvedCfg.Cache.Backend == config.BackendSQLite {
		st, err := store.Open(resolvedCfg.Cache.DBPath, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		cache = st
	} else {
		mem, err := pagecache.NewMemory(resolvedCfg.Cache.MaxEntries)
		if err != nil {
			return err
		}

		cache = mem
	}

	// The mover resolves paths from the metadata mirror, so it needs a
	// fresh snapshot first.
	syncer := index.NewSyncer(client, idx, nil, listOptions(), logger)
	if err := syncer.Refresh(ctx); err != nil {
		return err
	}

	mv := mover.New(client, idx, cache, mover.Config{
		RootID:      resolvedCfg.Drive.RootFolderID,
		TeamDriveID: resolvedCfg.Drive.TeamDriveID,
		Mode:        driveMode(),
	}, logger)

	path, err := mv.MoveFile(ctx, fileID, destinationID, driveMode())
	if err != nil {
		return err
	}

	fmt.Println(path)

	return nil
}
