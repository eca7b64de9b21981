// Package listing renders boards and their comments for the command line.
package listing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/corkboard/pkg/board"
)

// OutputFormat specifies how board and comment output is rendered.
type OutputFormat string

const (
	// OutputFormatTable is a human-readable table with truncated bodies
	OutputFormatTable OutputFormat = "table"

	// OutputFormatJSONL writes complete comments as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"

	// OutputFormatJSON writes a single pretty-printed JSON document
	OutputFormatJSON OutputFormat = "json"
)

// ParseFormat validates s against the formats a command accepts.
// An empty s selects the first allowed format.
func ParseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	if s == "" && len(allowed) > 0 {
		return allowed[0], nil
	}
	for _, f := range allowed {
		if OutputFormat(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// BoardView is a board together with its comments, as rendered by the
// json output format.
type BoardView struct {
	*board.Board
	Comments []*board.Comment `json:"comments"`
}

// ListComments writes the comments of board boardID to w in the given format.
// Comments are rendered as they are read from the store.
func ListComments(ctx context.Context, store *board.Store, boardID string, format OutputFormat, w io.Writer, opts ...board.ListOption) error {
	seq, err := store.ListComments(ctx, boardID, opts...)
	if err != nil {
		return err
	}

	switch format {
	case OutputFormatTable:
		_, err = FormatTable(w, seq, boardID)
	case OutputFormatJSONL:
		_, err = FormatJSONL(w, seq)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return err
}

// ShowBoard writes a board and its comments to w. The table format prints a
// header followed by the comment table; json collects everything into one
// BoardView document.
func ShowBoard(ctx context.Context, store *board.Store, boardID string, format OutputFormat, w io.Writer, opts ...board.ListOption) error {
	b, err := store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}

	seq, err := store.ListComments(ctx, boardID, opts...)
	if err != nil {
		return err
	}

	switch format {
	case OutputFormatTable:
		FormatBoardHeader(w, b, time.Now())
		_, err := FormatTable(w, seq, boardID)
		return err
	case OutputFormatJSON:
		comments, err := board.CollectComments(seq)
		if err != nil {
			return err
		}
		return FormatSingleJSON(w, &BoardView{Board: b, Comments: comments})
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
