package library

import "time"

// BookStatus is the availability of a book. It is derived state: a book is
// Borrowed exactly when an open lending record references it, and the field
// is recomputed from the ledger rather than assigned by call sites.
type BookStatus string

const (
	StatusAvailable BookStatus = "Available"
	StatusBorrowed  BookStatus = "Borrowed"
)

// Book represents one catalog entry. IDs are sequential integers assigned
// at seed or admin-add time.
type Book struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	Author string     `json:"author"`
	Genre  string     `json:"genre"`
	Cover  string     `json:"cover"`
	Status BookStatus `json:"status"`
}

// User represents a registered account. IDs are opaque strings.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LendingRecord is one loan. Returning a book stamps ReturnedAt instead of
// deleting the record, so the history keeps closed loans for auditing.
type LendingRecord struct {
	BookID     int64      `json:"bookId"`
	UserID     string     `json:"userId"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
}

// Open reports whether the loan is still outstanding.
func (r *LendingRecord) Open() bool { return r.ReturnedAt == nil }

// Snapshot is the complete persisted state. Every mutating operation writes
// the whole snapshot through to the store.
type Snapshot struct {
	Books       []*Book          `json:"books"`
	History     []*LendingRecord `json:"borrowingHistory"`
	Wishlist    []int64          `json:"wishlist"`
	Users       []*User          `json:"users"`
	CurrentUser *User            `json:"currentUser"`
}
