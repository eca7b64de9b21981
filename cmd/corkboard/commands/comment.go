package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/printer"
)

var (
	commentCreator string
	commentBody    string
	commentQuiet   bool
)

var commentCmd = &cobra.Command{
	Use:   "comment BOARD_ID",
	Short: "Post a comment to a board",
	Long: `Post a comment to an existing board and print the new comment's id.

Examples:
  corkboard comment 1 --creator bob --body "hi"`,
	Args: cobra.ExactArgs(1),
	RunE: runComment,
}

func init() {
	commentCmd.Flags().StringVar(&commentCreator, "creator", "", "Who is commenting (up to 30 characters)")
	commentCmd.Flags().StringVarP(&commentBody, "body", "b", "", "Comment text (up to 255 characters)")
	commentCmd.Flags().BoolVarP(&commentQuiet, "quiet", "q", false, "Print only the comment id")

	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	boardID := args[0]

	id, err := store.AddComment(commandContext(cmd), boardID, commentCreator, commentBody)
	if err != nil {
		return reportError("post comment", err)
	}

	if commentQuiet {
		printer.Println(id)
		return nil
	}
	printer.Success("Comment %s posted to board %s\n", id, boardID)
	return nil
}
