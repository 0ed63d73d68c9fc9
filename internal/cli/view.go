package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse a layout interactively in the terminal",
		Long: `Browse a layout interactively in the terminal.

Each terminal cell stands for a 10x20 pixel block; the viewport follows the
terminal size. Scroll with j/k, jump with J or g/G, glide to the target item
with enter, change the track count with +/- and rotate with o.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := flags.apply(&opts, cmd.Flags().Changed); err != nil {
				return err
			}
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			cfg, err := opts.GridConfig()
			if err != nil {
				return err
			}

			// Log lines would tear the alternate screen.
			logger := c.Logger.WithPrefix("view")
			logger.SetLevel(LogError)

			model, err := NewGridModel(cfg, opts.SizePolicy(), opts.Count, opts.Width, opts.Height, logger)
			if err != nil {
				return err
			}
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("viewer: %w", err)
			}
			if m, ok := final.(GridModel); ok {
				printInfo("Left at offset %d with %d item(s) visible", m.Engine().Offset(), len(m.Engine().Visible()))
			}
			return nil
		},
	}

	addGridFlags(cmd, &flags)
	return cmd
}
