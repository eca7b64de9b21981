// Package watch follows a board for newly posted comments.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/corkboard/pkg/board"
)

// DefaultInterval is how often Follow polls when no interval is given.
const DefaultInterval = time.Second

// Follow polls boardID every interval and calls emit for each comment posted
// after Follow started, in creation order. Comments that existed at the first
// poll are skipped unless includeExisting is set.
//
// Follow returns nil when ctx is cancelled or its deadline passes, and the
// first error from the store or from emit otherwise.
func Follow(ctx context.Context, store *board.Store, boardID string, interval time.Duration, includeExisting bool, emit func(*board.Comment) error) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	seen := make(map[string]bool)
	first := true

	poll := func() error {
		seq, err := store.ListComments(ctx, boardID, board.WithOrder(board.OrderCreated))
		if err != nil {
			return err
		}
		for c, err := range seq {
			if err != nil {
				return err
			}
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			if first && !includeExisting {
				continue
			}
			if err := emit(c); err != nil {
				return err
			}
		}
		first = false
		return nil
	}

	if err := poll(); err != nil {
		return stopped(ctx, boardID, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if err := poll(); err != nil {
				return stopped(ctx, boardID, err)
			}
		}
	}
}

// stopped hides errors caused by ctx ending mid-poll.
func stopped(ctx context.Context, boardID string, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || board.IsUnavailable(err)) {
		return nil
	}
	return fmt.Errorf("watching board %s: %w", boardID, err)
}
