package board

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync/atomic"

	"github.com/dyluth/corkboard/pkg/kv"
)

// Order selects how ListComments sorts a board's comments.
type Order int

const (
	// OrderLexical sorts by id string. This is the historical order: it
	// agrees with creation order only among ids of the same length, so "12"
	// is listed before "5".
	OrderLexical Order = iota

	// OrderCreated sorts by decoded counter value, which is creation order.
	OrderCreated
)

func (o Order) String() string {
	switch o {
	case OrderLexical:
		return "lexical"
	case OrderCreated:
		return "created"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder maps "lexical" or "created" to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "lexical":
		return OrderLexical, nil
	case "created":
		return OrderCreated, nil
	default:
		return 0, fmt.Errorf("unknown comment order %q (want lexical or created)", s)
	}
}

// ListOption configures ListComments.
type ListOption func(*listConfig)

type listConfig struct {
	order Order
}

// WithOrder selects the sort order of the returned comments.
func WithOrder(o Order) ListOption {
	return func(c *listConfig) { c.order = o }
}

// AddComment posts a comment to an existing board and returns its id.
// Comment ids come from one counter shared by all boards.
func (s *Store) AddComment(ctx context.Context, boardID, creator, body string) (string, error) {
	if err := validateComment(creator, body); err != nil {
		return "", err
	}
	if _, err := s.GetBoard(ctx, boardID); err != nil {
		return "", err
	}

	id, err := s.ids.NextID(ctx, CommentCounter)
	if err != nil {
		return "", fmt.Errorf("minting comment id: %w", err)
	}

	bodyKey := s.keys.CommentBody(id)
	if err := s.kv.Set(ctx, bodyKey, body); err != nil {
		return "", storeError("SET", bodyKey, "comment", id, err)
	}
	creatorKey := s.keys.CommentCreator(id)
	if err := s.kv.Set(ctx, creatorKey, creator); err != nil {
		return "", storeError("SET", creatorKey, "comment", id, err)
	}
	listKey := s.keys.BoardComments(boardID)
	if err := s.kv.LPush(ctx, listKey, id); err != nil {
		return "", storeError("LPUSH", listKey, "board", boardID, err)
	}

	return id, nil
}

// ListComments returns the comments of a board as a lazy sequence.
//
// The board's comment id list is read and sorted before ListComments
// returns; each comment's fields are fetched only as the sequence is ranged
// over. A comment with a missing field stops the sequence with a
// *CorruptRecordError. The sequence can be ranged over once; a second range
// yields ErrSequenceConsumed.
func (s *Store) ListComments(ctx context.Context, boardID string, opts ...ListOption) (iter.Seq2[*Comment, error], error) {
	var cfg listConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := s.boardExists(ctx, boardID); err != nil {
		return nil, err
	}

	listKey := s.keys.BoardComments(boardID)
	ids, err := kv.ReadList(ctx, s.kv, listKey)
	if err != nil {
		return nil, storeError("LRANGE", listKey, "board", boardID, err)
	}

	if err := sortIDs(ids, cfg.order, boardID, listKey); err != nil {
		return nil, err
	}

	var used atomic.Bool
	return func(yield func(*Comment, error) bool) {
		if used.Swap(true) {
			yield(nil, ErrSequenceConsumed)
			return
		}
		for _, id := range ids {
			c, err := s.getComment(ctx, boardID, id)
			if !yield(c, err) || err != nil {
				return
			}
		}
	}, nil
}

// CollectComments drains seq into a slice, stopping at the first error.
func CollectComments(seq iter.Seq2[*Comment, error]) ([]*Comment, error) {
	out := []*Comment{}
	for c, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) getComment(ctx context.Context, boardID, id string) (*Comment, error) {
	body, err := s.required(ctx, s.keys.CommentBody(id), "comment", id)
	if err != nil {
		return nil, err
	}
	creator, err := s.required(ctx, s.keys.CommentCreator(id), "comment", id)
	if err != nil {
		return nil, err
	}
	return &Comment{
		ID:      id,
		BoardID: boardID,
		Creator: creator,
		Body:    body,
	}, nil
}

func sortIDs(ids []string, order Order, boardID, listKey string) error {
	switch order {
	case OrderLexical:
		sort.Strings(ids)
		return nil

	case OrderCreated:
		values := make(map[string]uint64, len(ids))
		for _, id := range ids {
			n, err := DecodeID(id)
			if err != nil {
				return &CorruptRecordError{Kind: "board", ID: boardID, Key: listKey, Reason: "undecodable comment id", Err: err}
			}
			values[id] = n
		}
		slices.SortFunc(ids, func(a, b string) int {
			return cmp.Compare(values[a], values[b])
		})
		return nil

	default:
		return fmt.Errorf("unknown comment order %v", order)
	}
}
