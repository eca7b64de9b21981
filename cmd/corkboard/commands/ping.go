package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/printer"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured store is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Ping(commandContext(cmd)); err != nil {
			return reportError("reach the store", err)
		}
		printer.Success("Store reachable (%s)\n", cfg.Store)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
