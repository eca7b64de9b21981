package listing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/corkboard/pkg/board"
	"github.com/dyluth/corkboard/pkg/kv/mem"
)

// setupBoard creates board "Fans of Rust" with comments "5" and "12" (the
// other ids are spent on a second board).
func setupBoard(t *testing.T) (*board.Store, string) {
	t.Helper()
	ctx := context.Background()
	s := board.NewStore(mem.New())

	id, err := s.CreateOrGetBoard(ctx, "Fans of Rust", "alice")
	require.NoError(t, err)
	other, err := s.CreateOrGetBoard(ctx, "filler", "alice")
	require.NoError(t, err)

	for i := 1; i <= 38; i++ {
		target := other
		if i == 5 || i == 38 {
			target = id
		}
		_, err := s.AddComment(ctx, target, "bob", "comment")
		require.NoError(t, err)
	}
	return s, id
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("", OutputFormatTable, OutputFormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, OutputFormatTable, f)

	f, err = ParseFormat("jsonl", OutputFormatTable, OutputFormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, OutputFormatJSONL, f)

	_, err = ParseFormat("json", OutputFormatTable, OutputFormatJSONL)
	assert.Error(t, err)
}

func TestListComments(t *testing.T) {
	ctx := context.Background()
	s, id := setupBoard(t)

	t.Run("jsonl in lexical order", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ListComments(ctx, s, id, OutputFormatJSONL, &buf))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `"id":"12"`)
		assert.Contains(t, lines[1], `"id":"5"`)
	})

	t.Run("table in created order", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ListComments(ctx, s, id, OutputFormatTable, &buf, board.WithOrder(board.OrderCreated)))
		out := buf.String()
		assert.Less(t, strings.Index(out, "\n5 "), strings.Index(out, "\n12 "))
	})

	t.Run("unknown board", func(t *testing.T) {
		err := ListComments(ctx, s, "zz", OutputFormatTable, &bytes.Buffer{})
		assert.True(t, board.IsNotFound(err))
	})

	t.Run("unsupported format", func(t *testing.T) {
		err := ListComments(ctx, s, id, OutputFormatJSON, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestShowBoard(t *testing.T) {
	ctx := context.Background()
	s, id := setupBoard(t)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ShowBoard(ctx, s, id, OutputFormatTable, &buf))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "Board 1: Fans of Rust\nCreated by alice, "))
		assert.Contains(t, out, "2 comments")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ShowBoard(ctx, s, id, OutputFormatJSON, &buf))
		out := buf.String()
		assert.Contains(t, out, `"name": "Fans of Rust"`)
		assert.Contains(t, out, `"comments": [`)
	})

	t.Run("unknown board", func(t *testing.T) {
		err := ShowBoard(ctx, s, "zz", OutputFormatJSON, &bytes.Buffer{})
		assert.True(t, board.IsNotFound(err))
	})
}
