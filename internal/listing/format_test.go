package listing

import (
	"bytes"
	"encoding/json"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/corkboard/pkg/board"
)

// seqOf yields cs and then, if non-nil, err.
func seqOf(err error, cs ...*board.Comment) iter.Seq2[*board.Comment, error] {
	return func(yield func(*board.Comment, error) bool) {
		for _, c := range cs {
			if !yield(c, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func TestFormatBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"empty body", "", "-"},
		{"blank lines only", "  \n \n", "-"},
		{"short single line", "hi", "hi"},
		{"exactly 40 chars", strings.Repeat("a", 40), strings.Repeat("a", 40)},
		{"41 chars - should truncate", strings.Repeat("a", 41), strings.Repeat("a", 37) + "..."},
		{"multi-line - first line only", "First line\nSecond line", "First line"},
		{"leading whitespace", "  \n  hello world  \n", "hello world"},
		{"truncates by character", strings.Repeat("é", 50), strings.Repeat("é", 37) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatBody(tt.body))
		})
	}
}

func TestFormatCreator(t *testing.T) {
	assert.Equal(t, "-", formatCreator(""))
	assert.Equal(t, "bob", formatCreator("bob"))
	assert.Equal(t, "abcdefghijklm...", formatCreator("abcdefghijklmnopqrstuvwxyz"))
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago      time.Duration
		expected string
	}{
		{30 * time.Second, "30s ago"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{72 * time.Hour, "3d ago"},
		{-time.Minute, "just now"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatAge(now.Add(-tt.ago), now))
	}
	assert.Equal(t, "-", formatAge(time.Time{}, now))
}

func TestFormatTable(t *testing.T) {
	t.Run("rows and count", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := FormatTable(&buf, seqOf(nil,
			&board.Comment{ID: "12", BoardID: "1", Creator: "bob", Body: "hi"},
			&board.Comment{ID: "5", BoardID: "1", Creator: "carol", Body: "second\nline"},
		), "1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 6)
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.Equal(t, "12     bob              hi", lines[2])
		assert.Equal(t, "5      carol            second", lines[3])
		assert.Equal(t, "2 comments", lines[5])
	})

	t.Run("single comment", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := FormatTable(&buf, seqOf(nil, &board.Comment{ID: "1", Creator: "bob", Body: "hi"}), "1")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(buf.String(), "\n1 comment\n"))
	})

	t.Run("empty board", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := FormatTable(&buf, seqOf(nil), "7")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, "No comments on board '7'\n", buf.String())
	})

	t.Run("sequence error stops output", func(t *testing.T) {
		boom := errors.New("boom")
		var buf bytes.Buffer
		n, err := FormatTable(&buf, seqOf(boom, &board.Comment{ID: "1", Creator: "bob", Body: "hi"}), "1")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, n)
		assert.NotContains(t, buf.String(), "1 comment\n")
	})
}

func TestFormatJSONL(t *testing.T) {
	var buf bytes.Buffer
	n, err := FormatJSONL(&buf, seqOf(nil,
		&board.Comment{ID: "1", BoardID: "1", Creator: "bob", Body: "hi"},
		&board.Comment{ID: "2", BoardID: "1", Creator: "eve", Body: "line\nbreak"},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var c board.Comment
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &c))
	assert.Equal(t, board.Comment{ID: "2", BoardID: "1", Creator: "eve", Body: "line\nbreak"}, c)
}

func TestFormatSingleJSON(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	view := &BoardView{
		Board:    &board.Board{ID: "1", Name: "Fans of Rust", Creator: "alice", CreatedAt: created},
		Comments: []*board.Comment{{ID: "1", BoardID: "1", Creator: "bob", Body: "hi"}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatSingleJSON(&buf, view))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Fans of Rust", got["name"])
	assert.Equal(t, "2024-03-01T12:00:00Z", got["created_at"])
	assert.Len(t, got["comments"], 1)
}
