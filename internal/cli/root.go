package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgrid/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "flowgrid",
		Short: "Flowgrid packs variably sized items into a scrolling track grid",
		Long: `Flowgrid packs items of proportional sizes into a fixed number of tracks,
tracks which of them a scrolling viewport shows, and renders the result.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/flowgrid/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addGridFlags registers the shared layout flags on cmd.
func addGridFlags(cmd *cobra.Command, f *gridFlags) {
	cmd.Flags().IntVar(&f.tracks, "tracks", 0, "number of tracks (columns, or rows when horizontal)")
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "flow direction: vertical, horizontal")
	cmd.Flags().IntVar(&f.inset, "inset", 0, "spacing between items in pixels")
	cmd.Flags().IntVar(&f.width, "width", 0, "viewport width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 0, "viewport height in pixels")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "number of items")
	cmd.Flags().StringVarP(&f.sizeFile, "sizes", "s", "", "item size file (.toml or .json)")
}
