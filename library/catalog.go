package library

import (
	"fmt"
	"strings"
)

// Seed populates the catalog only when it is currently empty, so re-running
// the importer never overwrites an existing catalog. Books without an id are
// assigned the next sequential one.
func (l *Library) Seed(books []*Book) error {
	if len(l.snap.Books) > 0 {
		return nil
	}
	for _, b := range books {
		if b.ID == 0 {
			b.ID = l.ids.NextBookID(l.snap.Books)
		}
		l.snap.Books = append(l.snap.Books, b)
	}
	return l.persist()
}

// AddBook adds a new Available book with the next sequential id. All four
// fields are required; the validation message lists every missing one.
func (l *Library) AddBook(title, author, genre, cover string) (*Book, error) {
	var missing []string
	if strings.TrimSpace(title) == "" {
		missing = append(missing, "title is required")
	}
	if strings.TrimSpace(author) == "" {
		missing = append(missing, "author is required")
	}
	if strings.TrimSpace(genre) == "" {
		missing = append(missing, "genre is required")
	}
	if strings.TrimSpace(cover) == "" {
		missing = append(missing, "cover is required")
	}
	if len(missing) > 0 {
		return nil, &Error{Kind: KindValidation, Message: strings.Join(missing, "; ")}
	}

	b := &Book{
		ID:     l.ids.NextBookID(l.snap.Books),
		Title:  title,
		Author: author,
		Genre:  genre,
		Cover:  cover,
		Status: StatusAvailable,
	}
	l.snap.Books = append(l.snap.Books, b)
	if err := l.persist(); err != nil {
		return nil, err
	}
	return b, nil
}

// RequestRemoveBook prepares the removal of a book. It fails up front with
// NotFound for an unknown id and Conflict while an open loan references the
// book; the returned Confirmation performs the removal (and drops the book
// from the wishlist) when confirmed.
func (l *Library) RequestRemoveBook(bookID int64) (*Confirmation, error) {
	if _, err := l.FindBook(bookID); err != nil {
		return nil, err
	}
	if l.openRecordFor(bookID) != nil {
		return nil, &Error{
			Kind:    KindConflict,
			Message: fmt.Sprintf("cannot delete book %d while it is borrowed", bookID),
		}
	}

	return &Confirmation{apply: func() error {
		// Re-check: a borrow may have happened between request and confirm.
		if l.openRecordFor(bookID) != nil {
			return &Error{
				Kind:    KindConflict,
				Message: fmt.Sprintf("cannot delete book %d while it is borrowed", bookID),
			}
		}
		kept := make([]*Book, 0, len(l.snap.Books))
		for _, b := range l.snap.Books {
			if b.ID != bookID {
				kept = append(kept, b)
			}
		}
		l.snap.Books = kept

		wished := make([]int64, 0, len(l.snap.Wishlist))
		for _, id := range l.snap.Wishlist {
			if id != bookID {
				wished = append(wished, id)
			}
		}
		l.snap.Wishlist = wished

		return l.persist()
	}}, nil
}

// FindBook returns the book with the given id.
func (l *Library) FindBook(bookID int64) (*Book, error) {
	for _, b := range l.snap.Books {
		if b.ID == bookID {
			return b, nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("book %d not found", bookID)}
}

// Filter narrows a catalog listing. The zero value matches everything.
type Filter struct {
	// Query matches as a case-insensitive substring of title or author.
	Query string
	// Genre, when set, must match exactly.
	Genre string
	// Status, when set, must match exactly.
	Status BookStatus
}

func (f Filter) matches(b *Book) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}
	if f.Genre != "" && b.Genre != f.Genre {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

// Books lists the catalog entries matching the filter, in catalog order.
func (l *Library) Books(f Filter) []*Book {
	var out []*Book
	for _, b := range l.snap.Books {
		if f.matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// ToggleWishlist flips the book's wishlist membership and reports the new
// membership. Toggling is idempotent per id: two toggles restore the
// original state.
func (l *Library) ToggleWishlist(bookID int64) (bool, error) {
	if _, err := l.FindBook(bookID); err != nil {
		return false, err
	}
	for i, id := range l.snap.Wishlist {
		if id == bookID {
			l.snap.Wishlist = append(l.snap.Wishlist[:i], l.snap.Wishlist[i+1:]...)
			return false, l.persist()
		}
	}
	l.snap.Wishlist = append(l.snap.Wishlist, bookID)
	return true, l.persist()
}

// Wishlist returns the wishlisted book ids in insertion order.
func (l *Library) Wishlist() []int64 {
	out := make([]int64, len(l.snap.Wishlist))
	copy(out, l.snap.Wishlist)
	return out
}
