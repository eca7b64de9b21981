package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/printer"
	"github.com/dyluth/corkboard/internal/scaffold"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter corkboard.yml",
	Long: `Write a starter configuration into the current directory.

Creates:
  • corkboard.yml - store, namespace and logging settings
  • .env.example  - the CORKBOARD_* environment overrides

Use --force to overwrite existing files.`,
	Args:        cobra.NoArgs,
	RunE:        runInit,
	Annotations: map[string]string{annotationNoStore: "true"},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing corkboard.yml and .env.example")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := scaffold.Initialize(".", forceInit); err != nil {
		var existing *scaffold.ExistingFilesError
		if errors.As(err, &existing) {
			return printer.Error(
				"already initialized",
				err.Error(),
				[]string{"Use 'corkboard init --force' to overwrite"},
			)
		}
		return printer.Error("initialization failed", err.Error(), nil)
	}

	printer.Success("Initialized corkboard configuration\n")
	scaffold.PrintSuccess(cmd.OutOrStdout())
	return nil
}
