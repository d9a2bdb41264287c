package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drivewiki/drivewiki/internal/index"
)

var flagTreeJSON bool

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the folder tree",
		Long:  "Walks the remote folder tree and prints the folders-only hierarchy used for destination picking.",
		Args:  cobra.NoArgs,
		RunE:  runTree,
	}

	cmd.Flags().BoolVar(&flagTreeJSON, "json", false, "output in JSON format")

	return cmd
}

func runTree(cmd *cobra.Command, _ []string) error {
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
	syncer := index.NewSyncer(client, idx, nil, listOptions(), logger)

	folders, err := index.NewTreeBuilder(idx, syncer).GetFolders(ctx)
	if err != nil {
		return err
	}

	if flagTreeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(folders)
	}

	printFolders(folders, 0)

	return nil
}

func printFolders(folders []*index.Folder, depth int) {
	for _, f := range folders {
		fmt.Printf("%s%s  [%s]\n", strings.Repeat("  ", depth), f.PrettyName, f.ID)
		printFolders(f.Children, depth+1)
	}
}
