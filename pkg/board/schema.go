package board

// Counter names.
const (
	BoardCounter   = "last_board_id"
	CommentCounter = "last-comment-id:"
)

// Keys builds every key the store reads or writes.
// The zero value produces the bare layout documented in the package comment;
// a non-empty Namespace is prepended verbatim to each key so several
// deployments can share one backend.
type Keys struct {
	Namespace string
}

// BoardByName returns the key holding the id of the board called name.
// Pattern: board:{name}
func (k Keys) BoardByName(name string) string {
	return k.Namespace + "board:" + name
}

// BoardName returns the key holding a board's name.
// Pattern: name:board:{id}
func (k Keys) BoardName(id string) string {
	return k.Namespace + "name:board:" + id
}

// BoardCreator returns the key holding a board's creator.
// Pattern: creator:board:{id}
func (k Keys) BoardCreator(id string) string {
	return k.Namespace + "creator:board:" + id
}

// BoardDate returns the key holding a board's creation time.
// Pattern: date:board:{id}
func (k Keys) BoardDate(id string) string {
	return k.Namespace + "date:board:" + id
}

// BoardComments returns the key of a board's comment id list.
// Pattern: comment:board:{board_id}
func (k Keys) BoardComments(boardID string) string {
	return k.Namespace + "comment:board:" + boardID
}

// CommentBody returns the key holding a comment's body.
// Pattern: comment:{id}
func (k Keys) CommentBody(id string) string {
	return k.Namespace + "comment:" + id
}

// CommentCreator returns the key holding a comment's creator.
// Pattern: creator:comment:{id}
func (k Keys) CommentCreator(id string) string {
	return k.Namespace + "creator:comment:" + id
}

// Counter returns the key of the named id counter.
func (k Keys) Counter(name string) string {
	return k.Namespace + name
}
