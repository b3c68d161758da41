package memo

import (
	"context"
	stderrors "errors"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = stderrors.New("memo: not found")

// Store persists memos. Implementations must be safe for concurrent use.
type Store interface {
	// Put inserts m, replacing a memo with the same id.
	Put(ctx context.Context, m Memo) error

	// Get returns the memo with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Memo, error)

	// List returns every memo in ascending date order.
	List(ctx context.Context) ([]Memo, error)

	// Delete removes a memo. A missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases the backend.
	Close() error
}
