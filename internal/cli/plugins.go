package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rig-mapper/internal/plugins"
	"rig-mapper/internal/transfer"
)

// NewPluginsCommand creates the plugins command.
func NewPluginsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List transfer plugins and their settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := rootOpts.load(cmd)
			if err != nil {
				return err
			}

			exec := transfer.NewExecutor(plugins.Default())
			if err := cfg.ApplyPlugins(exec); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PLUGIN\tENABLED\tDESCRIPTION")

			for _, p := range exec.Plugins() {
				fmt.Fprintf(tw, "%s\t%t\t%s\n", p.Name(), p.Enabled(), p.Description())

				for _, s := range p.Settings() {
					fmt.Fprintf(tw, "  %s=%v\t\t%s\n", s.Key, s.Value, s.Description)
				}
			}

			return tw.Flush()
		},
	}
}
