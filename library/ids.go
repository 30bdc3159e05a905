package library

import "github.com/google/uuid"

// IDAllocator generates entity ids. Books keep their sequential integer
// scheme and users their opaque string scheme, but both flow through this
// single abstraction so tests can supply deterministic ids.
type IDAllocator interface {
	// NextBookID returns the id for a new book given the current catalog.
	NextBookID(existing []*Book) int64
	// NewUserID returns a fresh opaque user id.
	NewUserID() string
}

type defaultAllocator struct{}

func (defaultAllocator) NextBookID(existing []*Book) int64 {
	var max int64
	for _, b := range existing {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

func (defaultAllocator) NewUserID() string { return uuid.NewString() }
