package cmd

import (
	"github.com/KaramelBytes/paradox-cli/internal/tui"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the report interactively (←/→ sections, ↑/↓ scroll, q quit)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(buildDocument())
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
