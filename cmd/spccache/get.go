package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCmd creates the get command.
func NewGetCmd(opts *rootOptions) *cobra.Command {
	var def string
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY",
		Long: `Prints the value stored under KEY. Missing, expired and corrupt entries are
all misses: the command prints --default when given, otherwise it fails.`,
		Example: `  spccache get feed-42
  spccache get feed-42 --default '{}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, render, err := newDst(opts.cfg.Codec)
			if err != nil {
				return err
			}
			ok, err := opts.backend.Get(args[0], dst)
			if err != nil {
				return keyError(err)
			}
			if !ok {
				if cmd.Flags().Changed("default") {
					fmt.Fprintln(cmd.OutOrStdout(), def)
					return nil
				}
				return errMiss
			}
			fmt.Fprintln(cmd.OutOrStdout(), render())
			return nil
		},
	}
	cmd.Flags().StringVar(&def, "default", "", "value to print on a miss")
	return cmd
}
