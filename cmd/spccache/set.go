package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonardcser/spc-cache/internal/cache"
)

// NewSetCmd creates the set command.
func NewSetCmd(opts *rootOptions) *cobra.Command {
	var ttlFlag string
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store VALUE under KEY",
		Long: `Stores VALUE under KEY. With the json codec VALUE must be valid JSON.
--ttl accepts integer seconds or a Go duration; without it the configured
default TTL applies.`,
		Example: `  spccache set feed-42 '{"title":"news"}' --ttl 10m
  spccache set counter 7 --ttl 30`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ttl cache.TTL
			if ttlFlag != "" {
				var err error
				if ttl, err = cache.ParseTTL(ttlFlag); err != nil {
					return err
				}
			}
			value, err := argValue(opts.cfg.Codec, args[1])
			if err != nil {
				return err
			}
			ok, err := opts.backend.Set(args[0], value, ttl)
			if err != nil {
				return keyError(err)
			}
			if !ok {
				return errors.New("cache write failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s (ttl: %s)\n", args[0], ttl)
			return nil
		},
	}
	cmd.Flags().StringVar(&ttlFlag, "ttl", "", "time-to-live, e.g. 600 or 10m")
	return cmd
}
