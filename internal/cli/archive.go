package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calloway/intertext/pkg/archive"
	"github.com/calloway/intertext/pkg/cache"
	"github.com/calloway/intertext/pkg/graph"
)

// archiveCommand creates the archive command with subcommands.
func (c *CLI) archiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and list network snapshots",
		Long: `Store and list network snapshots.

Snapshots preserve a point-in-time copy of the influence graph in MongoDB so
the network's growth can be tracked as the edge list evolves. Configure the
connection under [archive] in intertext.toml.`,
	}

	cmd.AddCommand(c.archivePushCommand())
	cmd.AddCommand(c.archiveListCommand())

	return cmd
}

// archivePushCommand creates the "archive push" subcommand.
func (c *CLI) archivePushCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "push [graph.json]",
		Short: "Push a graph snapshot to the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArchivePush(cmd.Context(), args[0], label)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "snapshot label")

	return cmd
}

func (c *CLI) runArchivePush(ctx context.Context, input, label string) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	data, err := graph.Marshal(g)
	if err != nil {
		return err
	}
	hash := cache.Hash(data)

	store, err := c.openArchive(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	snap, err := store.Push(ctx, g, hash, label)
	if err != nil {
		return fmt.Errorf("push snapshot: %w", err)
	}

	printSuccess("Snapshot stored")
	printDetail("ID: %s", snap.ID)
	printDetail("Hash: %s", snap.Hash)
	printStats(snap.NodeCount, snap.EdgeCount, false)

	return nil
}

// archiveListCommand creates the "archive list" subcommand.
func (c *CLI) archiveListCommand() *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArchiveList(cmd.Context(), limit)
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 20, "maximum snapshots to list")

	return cmd
}

func (c *CLI) runArchiveList(ctx context.Context, limit int64) error {
	store, err := c.openArchive(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	snaps, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	if len(snaps) == 0 {
		printInfo("Archive is empty")
		return nil
	}

	for _, s := range snaps {
		name := s.Label
		if name == "" {
			name = s.ID
		}
		fmt.Println(StyleValue.Render(name))
		printDetail("%s · %d works · %d edges · %s",
			s.CreatedAt.Format("2006-01-02 15:04"), s.NodeCount, s.EdgeCount,
			strings.Join(s.Themes, ", "))
	}

	return nil
}

// openArchive connects to the configured snapshot store.
func (c *CLI) openArchive(ctx context.Context) (*archive.Store, error) {
	cfg := c.Config.Archive
	store, err := archive.Connect(ctx, cfg.URI, cfg.Database, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("connect archive: %w", err)
	}
	return store, nil
}
