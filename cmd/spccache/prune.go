package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

type pruner interface {
	Prune(ctx context.Context) (int, error)
}

// NewPruneCmd creates the prune command.
func NewPruneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and orphaned entries from the cache directory",
		Long: `Entries are only checked for expiry when read, so expired files stay on
disk until overwritten or deleted. prune removes expired entries, entries
with corrupt metadata and data files without metadata.

prune works on the local file backend only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ok := opts.backend.(pruner)
			if !ok {
				return errors.New("prune requires the local file backend")
			}
			n, err := p.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
			return nil
		},
	}
}
