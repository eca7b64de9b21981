// Package board stores boards and their comments as flat key-value pairs and
// mints the short identifiers both are addressed by.
//
// # Overview
//
// A Board is created once per distinct name and owns an ordered list of
// Comments. Nothing is held in process memory between calls: every operation
// reads and writes the kv.Store it was constructed with, so any number of
// Store values (in any number of processes) may share one backend.
//
// # Identifiers
//
// Ids come from named counters incremented atomically by the backend
// ("last_board_id" for boards, "last-comment-id:" for comments, the latter
// shared by every board) and are written in base 36 using 0-9a-z:
//
//	1 -> "1", 35 -> "z", 36 -> "10", 1295 -> "zz"
//
// Ids of equal length sort in creation order. Ids of different lengths do
// not: "10" (36) sorts before "9" (9).
//
// # Key Schema
//
//	board:{name}               board id for a name (creation guard)
//	name:board:{id}            board name
//	creator:board:{id}         board creator
//	date:board:{id}            board creation time, RFC 3339
//	last_board_id              board id counter
//	comment:{id}               comment body
//	creator:comment:{id}       comment creator
//	last-comment-id:           comment id counter
//	comment:board:{board_id}   list of the board's comment ids, newest first
//
// An optional namespace is prepended verbatim to every key.
//
// # Comment Order
//
// ListComments returns comments in ascending lexicographic order of their id
// strings by default, which matches creation order only while every id has
// the same number of digits. WithOrder(OrderCreated) sorts by the decoded
// counter value instead.
//
// # Usage Example
//
//	store := board.NewStore(rediskv.New(&redis.Options{Addr: "localhost:6379"}, 0))
//
//	id, err := store.CreateOrGetBoard(ctx, "Fans of Rust", "alice")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := store.AddComment(ctx, id, "bob", "hi"); err != nil {
//		log.Fatal(err)
//	}
//
//	seq, err := store.ListComments(ctx, id)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for c, err := range seq {
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(c.Creator, c.Body)
//	}
package board
