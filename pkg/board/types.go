package board

import (
	"time"
	"unicode/utf8"
)

// Length limits, counted in characters.
const (
	MaxNameLength    = 30
	MaxCreatorLength = 30
	MaxBodyLength    = 255
)

// Board is a named topic that comments are posted to.
type Board struct {
	ID        string    `json:"id"`         // base-36 token from the board counter
	Name      string    `json:"name"`       // unique across boards
	Creator   string    `json:"creator"`    // free text, not authenticated
	CreatedAt time.Time `json:"created_at"` // set once at creation
}

// Comment is an immutable post on a board.
type Comment struct {
	ID      string `json:"id"`       // base-36 token from the global comment counter
	BoardID string `json:"board_id"` // owning board
	Creator string `json:"creator"`
	Body    string `json:"body"`
}

// validateBoard checks the caller-supplied fields of a new board.
func validateBoard(name, creator string) error {
	if name == "" {
		return &ValidationError{Field: "name", Limit: MaxNameLength}
	}
	if err := checkLength("name", name, MaxNameLength); err != nil {
		return err
	}
	return checkLength("creator", creator, MaxCreatorLength)
}

// validateComment checks the caller-supplied fields of a new comment.
func validateComment(creator, body string) error {
	if err := checkLength("creator", creator, MaxCreatorLength); err != nil {
		return err
	}
	return checkLength("body", body, MaxBodyLength)
}

func checkLength(field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return &ValidationError{Field: field, Limit: limit, Length: n}
	}
	return nil
}
