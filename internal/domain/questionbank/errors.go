package questionbank

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("malformed question record")

	// ErrInvalidBank is returned when a bank export is not a record list.
	ErrInvalidBank = errors.New("invalid bank file")

	// ErrUnresolvedAnswerLabel is raised in strict mode when a multiple
	// choice answer matches none of the options.
	ErrUnresolvedAnswerLabel = errors.New("answer does not resolve to an option label")
)

// MalformedRecordError identifies the record that failed normalization.
// It matches ErrMalformedRecord with errors.Is, and unwraps to the cause.
type MalformedRecordError struct {
	RecordID string
	Reason   string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("malformed record: %s", e.Reason)
	}
	return fmt.Sprintf("malformed record %s: %s", e.RecordID, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

func (e *MalformedRecordError) Unwrap() error { return e.Err }

func malformed(recordID, format string, args ...any) error {
	return &MalformedRecordError{RecordID: recordID, Reason: fmt.Sprintf(format, args...)}
}
