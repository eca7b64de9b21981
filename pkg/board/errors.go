package board

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Store matches exactly one of the first
// four through errors.Is.
var (
	// ErrValidation means caller input broke a length rule.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the referenced board does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorruptRecord means an entity's keys are only partly present or hold
	// undecodable values, e.g. after an interrupted write.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrStoreUnavailable means the key-value store could not be reached or
	// timed out.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSequenceConsumed is yielded when a comment sequence is ranged over a
	// second time.
	ErrSequenceConsumed = errors.New("comment sequence already consumed")
)

// ValidationError names the field that broke its length limit.
type ValidationError struct {
	Field  string
	Limit  int
	Length int // characters supplied; 0 for a missing required field
}

func (e *ValidationError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s must be at most %d characters (got %d)", e.Field, e.Limit, e.Length)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError identifies the entity that does not exist.
type NotFoundError struct {
	Kind string // "board"
	ID   string // id or, for name lookups, the name
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CorruptRecordError identifies the entity and key that failed to decode.
type CorruptRecordError struct {
	Kind   string // "board" or "comment"
	ID     string
	Key    string
	Reason string
	Err    error
}

func (e *CorruptRecordError) Error() string {
	msg := fmt.Sprintf("corrupt %s record '%s': %s (key %q)", e.Kind, e.ID, e.Reason, e.Key)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptRecordError) Is(target error) bool { return target == ErrCorruptRecord }

func (e *CorruptRecordError) Unwrap() error { return e.Err }

// StoreUnavailableError records which primitive failed.
type StoreUnavailableError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreUnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err means the board does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsCorrupt reports whether err is a CorruptRecordError.
func IsCorrupt(err error) bool { return errors.Is(err, ErrCorruptRecord) }

// IsUnavailable reports whether err is a StoreUnavailableError.
func IsUnavailable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }
