package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/dyluth/corkboard/pkg/board"
)

// FormatBoardHeader writes a board's title block ahead of its comment table.
func FormatBoardHeader(w io.Writer, b *board.Board, now time.Time) {
	fmt.Fprintf(w, "Board %s: %s\n", b.ID, b.Name)
	fmt.Fprintf(w, "Created by %s, %s (%s)\n\n",
		b.Creator,
		b.CreatedAt.UTC().Format(time.RFC3339),
		formatAge(b.CreatedAt, now),
	)
}

// FormatTable writes comments as a table as they are pulled from seq.
// Columns: ID, BY and COMMENT (first line, truncated). Returns the number of
// comments written; a sequence error stops the table and is returned.
func FormatTable(w io.Writer, seq iter.Seq2[*board.Comment, error], boardID string) (int, error) {
	n := 0
	for c, err := range seq {
		if err != nil {
			return n, err
		}
		if n == 0 {
			fmt.Fprintf(w, "%-6s %-16s %s\n", "ID", "BY", "COMMENT")
			fmt.Fprintf(w, "%-6s %-16s %s\n", "------", "----------------", "----------------------------------------")
		}
		fmt.Fprintf(w, "%-6s %-16s %s\n", c.ID, formatCreator(c.Creator), formatBody(c.Body))
		n++
	}

	if n == 0 {
		fmt.Fprintf(w, "No comments on board '%s'\n", boardID)
		return 0, nil
	}

	countMsg := "comment"
	if n != 1 {
		countMsg = "comments"
	}
	fmt.Fprintf(w, "\n%d %s\n", n, countMsg)

	return n, nil
}

// FormatJSONL writes each comment from seq as one compact JSON object per line.
func FormatJSONL(w io.Writer, seq iter.Seq2[*board.Comment, error]) (int, error) {
	n := 0
	for c, err := range seq {
		if err != nil {
			return n, err
		}
		data, err := json.Marshal(c)
		if err != nil {
			return n, fmt.Errorf("failed to marshal comment to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return n, fmt.Errorf("failed to write JSONL output: %w", err)
		}
		n++
	}
	return n, nil
}

// FormatSingleJSON writes v as indented JSON followed by a newline.
func FormatSingleJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// formatBody returns the first non-blank line of a comment, truncated to 40
// characters. Blank bodies show as "-".
func formatBody(body string) string {
	var firstLine string
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			firstLine = trimmed
			break
		}
	}
	if firstLine == "" {
		return "-"
	}
	return truncate(firstLine, 40)
}

func formatCreator(creator string) string {
	if creator == "" {
		return "-"
	}
	return truncate(creator, 16)
}

// truncate shortens s to limit characters, marking the cut with "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// formatAge renders the time since t relative to now, e.g. "5m ago".
func formatAge(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := now.Sub(t)
	switch {
	case diff < 0:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
