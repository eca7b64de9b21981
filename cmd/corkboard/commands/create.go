package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/printer"
)

var (
	createName    string
	createCreator string
	createQuiet   bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a board, or look up the board with that name",
	Long: `Create a board with the given name and print its id.

If a board with this name already exists its id is printed and nothing is
written; the creator of the existing board is kept.

Examples:
  corkboard create --name "Fans of Rust" --creator alice
  BOARD=$(corkboard create -q --name "Fans of Rust")`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "Board name (1-30 characters)")
	createCmd.Flags().StringVar(&createCreator, "creator", "", "Who is creating the board (up to 30 characters)")
	createCmd.Flags().BoolVarP(&createQuiet, "quiet", "q", false, "Print only the board id")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	id, err := store.CreateOrGetBoard(commandContext(cmd), createName, createCreator)
	if err != nil {
		return reportError("create board", err)
	}

	if createQuiet {
		printer.Println(id)
		return nil
	}
	printer.Success("Board '%s' has id %s\n", createName, id)
	return nil
}
