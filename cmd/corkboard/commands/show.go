package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/listing"
	"github.com/dyluth/corkboard/internal/printer"
	"github.com/dyluth/corkboard/pkg/board"
)

var (
	showName   string
	showOutput string
	showOrder  string
)

var showCmd = &cobra.Command{
	Use:   "show [BOARD_ID]",
	Short: "Show a board and its comments",
	Long: `Show a board's details followed by its comments.

The board is given by id, or by name with --name.

Output Formats:
  table - Board header and a table of comments (default)
  json  - One JSON document with the board and all comments

Examples:
  corkboard show 1
  corkboard show --name "Fans of Rust" -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showName, "name", "n", "", "Look the board up by name")
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "table", "Output format: table or json")
	showCmd.Flags().StringVar(&showOrder, "order", "lexical", "Comment order: lexical or created")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	format, err := listing.ParseFormat(showOutput, listing.OutputFormatTable, listing.OutputFormatJSON)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: table, json"})
	}
	order, err := board.ParseOrder(showOrder)
	if err != nil {
		return printer.Error("invalid comment order", err.Error(), []string{"Valid orders: lexical, created"})
	}

	var boardID string
	switch {
	case len(args) == 1 && showName != "":
		return printer.Error("conflicting arguments", "Give either a board id or --name, not both.", nil)
	case len(args) == 1:
		boardID = args[0]
	case showName != "":
		boardID, err = store.LookupBoard(ctx, showName)
		if err != nil {
			return reportError(fmt.Sprintf("find board '%s'", showName), err)
		}
	default:
		return printer.Error(
			"no board given",
			"Name the board to show.",
			[]string{"By id:\n  corkboard show 1", "By name:\n  corkboard show --name \"Fans of Rust\""},
		)
	}

	if err := listing.ShowBoard(ctx, store, boardID, format, cmd.OutOrStdout(), board.WithOrder(order)); err != nil {
		return reportError("show board", err)
	}
	return nil
}
