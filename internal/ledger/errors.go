package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidImport rejects an import payload that is not a transaction
// sequence.
var ErrInvalidImport = errors.New("invalid import data: expected a transaction sequence")

// NotFoundError reports that an update or delete referenced an id with no
// matching record. Surfaced distinctly so callers can render "not found"
// instead of a generic failure.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transaction not found: %s", e.ID)
}

// RepositoryError wraps a storage fault encountered while servicing a
// repository operation. It carries the original cause.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
