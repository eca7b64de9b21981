package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/listing"
	"github.com/dyluth/corkboard/internal/printer"
	"github.com/dyluth/corkboard/pkg/board"
)

var (
	commentsOutput string
	commentsOrder  string
)

var commentsCmd = &cobra.Command{
	Use:   "comments BOARD_ID",
	Short: "List the comments on a board",
	Long: `List the comments on a board.

Comments are listed by id as text by default, so "12" comes before "5".
Use --order=created to list them in the order they were posted.

Output Formats:
  table - Human-readable table with ID, author and first line (default)
  jsonl - Line-delimited JSON, one comment per line

Examples:
  corkboard comments 1
  corkboard comments 1 --order created -o jsonl | jq -r .body`,
	Args: cobra.ExactArgs(1),
	RunE: runComments,
}

func init() {
	commentsCmd.Flags().StringVarP(&commentsOutput, "output", "o", "table", "Output format: table or jsonl")
	commentsCmd.Flags().StringVar(&commentsOrder, "order", "lexical", "Comment order: lexical or created")

	rootCmd.AddCommand(commentsCmd)
}

func runComments(cmd *cobra.Command, args []string) error {
	format, err := listing.ParseFormat(commentsOutput, listing.OutputFormatTable, listing.OutputFormatJSONL)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: table, jsonl"})
	}
	order, err := board.ParseOrder(commentsOrder)
	if err != nil {
		return printer.Error("invalid comment order", err.Error(), []string{"Valid orders: lexical, created"})
	}

	if err := listing.ListComments(commandContext(cmd), store, args[0], format, cmd.OutOrStdout(), board.WithOrder(order)); err != nil {
		return reportError("list comments", err)
	}
	return nil
}
