package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonardcser/spc-cache/internal/cache"
	"github.com/leonardcser/spc-cache/internal/config"
	"github.com/leonardcser/spc-cache/internal/logger"
)

type rootOptions struct {
	configPath string
	dir        string
	socket     string
	codec      string
	logLevel   string

	cfg     *config.Config
	backend config.Backend
}

// NewRootCmd builds the spccache command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "spccache",
		Short: "Inspect and edit a file-backed TTL cache",
		Long: `spccache operates on an spc-cache directory: each entry is a <key>.spc
data file plus a <key>.spc.meta file holding its expiration time.

Without --socket the directory is accessed directly; with --socket the
commands go through a running spc-cache-server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if opts.backend != nil {
				return opts.backend.Close()
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file")
	pf.StringVar(&opts.dir, "dir", "", "cache directory (overrides config)")
	pf.StringVar(&opts.socket, "socket", "", "talk to the cache daemon on this unix socket")
	pf.StringVar(&opts.codec, "codec", "", "value codec: json, gob or raw")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (logs go to stderr)")

	cmd.AddCommand(
		NewGetCmd(opts),
		NewSetCmd(opts),
		NewDeleteCmd(opts),
		NewPruneCmd(opts),
	)
	return cmd
}

func (o *rootOptions) open(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dir != "" {
		cfg.Location = o.dir
		cfg.Backend = config.BackendFile
	}
	if o.codec != "" {
		cfg.Codec = o.codec
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	level := o.logLevel
	if level == "" {
		level = "warn"
	}
	logger.InitWriter(cmd.ErrOrStderr())
	logger.SetLevel(level)

	if o.socket != "" {
		codec, err := cache.CodecByName(cfg.Codec)
		if err != nil {
			return err
		}
		logger.Debugf("using cache daemon at %s", o.socket)
		o.backend = remoteBackend{cache.NewClient(o.socket, codec)}
		return nil
	}
	logger.Debugf("using %s backend at %s", cfg.Backend, cfg.Location)
	o.backend, err = config.OpenBackend(cfg, nil)
	return err
}

type remoteBackend struct{ *cache.Client }

func (remoteBackend) Close() error { return nil }

var errMiss = errors.New("cache miss")

func keyError(err error) error {
	if errors.Is(err, cache.ErrInvalidKey) {
		return err
	}
	return fmt.Errorf("unexpected error: %w", err)
}
