// Package cli implements the rig-mapper command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"rig-mapper/internal/config"
	"rig-mapper/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rig-mapper",
		Short: "Transfer rig setup between hierarchies",
		Long: `rig-mapper matches the nodes of a source hierarchy against one or more
target hierarchies and copies physics bones, materials, morph weights,
constraints and other per-node data across.

Nodes without a confident match are resolved by a policy file or by asking
on the terminal; every answer is reused for the rest of the run.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides the config")

	cmd.AddCommand(NewTransferCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewPluginsCommand(opts))

	return cmd
}

// load returns the configuration and a logger writing to the command's
// stderr.
func (o *RootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()

	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, nil, err
		}

		cfg = loaded
	}

	if o.LogLevel != "" {
		if _, err := logging.ParseLevel(o.LogLevel); err != nil {
			return nil, nil, err
		}

		cfg.LogLevel = o.LogLevel
	}

	return cfg, logging.New(cfg.SlogLevel(), cmd.ErrOrStderr()), nil
}
