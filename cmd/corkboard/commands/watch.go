package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/corkboard/internal/listing"
	"github.com/dyluth/corkboard/internal/printer"
	"github.com/dyluth/corkboard/internal/watch"
	"github.com/dyluth/corkboard/pkg/board"
)

var (
	watchInterval time.Duration
	watchTimeout  time.Duration
	watchExisting bool
	watchOutput   string
)

var watchCmd = &cobra.Command{
	Use:   "watch BOARD_ID",
	Short: "Print comments as they are posted to a board",
	Long: `Follow a board and print each new comment as it appears.

Runs until interrupted (Ctrl+C) or until --timeout elapses.

Examples:
  corkboard watch 1
  corkboard watch 1 --existing -o jsonl | jq -r .body`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watch.DefaultInterval, "How often to poll the store")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Stop after this long (0 = run until interrupted)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "Print comments already on the board first")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "table", "Output format: table or jsonl")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := listing.ParseFormat(watchOutput, listing.OutputFormatTable, listing.OutputFormatJSONL)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: table, jsonl"})
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()
	if watchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchTimeout)
		defer cancel()
	}

	w := cmd.OutOrStdout()
	emit := func(c *board.Comment) error {
		if format == listing.OutputFormatJSONL {
			_, err := listing.FormatJSONL(w, func(yield func(*board.Comment, error) bool) { yield(c, nil) })
			return err
		}
		_, err := fmt.Fprintf(w, "[%s] %s: %s\n", c.ID, c.Creator, c.Body)
		return err
	}

	if err := watch.Follow(ctx, store, args[0], watchInterval, watchExisting, emit); err != nil {
		return reportError("watch board", err)
	}
	return nil
}
