package library

import "fmt"

// openRecordFor returns the open lending record for a book, or nil. At most
// one open record exists per book id.
func (l *Library) openRecordFor(bookID int64) *LendingRecord {
	for _, r := range l.snap.History {
		if r.BookID == bookID && r.Open() {
			return r
		}
	}
	return nil
}

// refreshStatuses recomputes every book's derived status from open-record
// membership. Runs after load and before every persist, so the stored field
// can never drift from the ledger.
func (l *Library) refreshStatuses() {
	open := make(map[int64]bool, len(l.snap.History))
	for _, r := range l.snap.History {
		if r.Open() {
			open[r.BookID] = true
		}
	}
	for _, b := range l.snap.Books {
		if open[b.ID] {
			b.Status = StatusBorrowed
		} else {
			b.Status = StatusAvailable
		}
	}
}

// Borrow lends a book to a user. It fails with NotFound when the book or
// user is absent and with Conflict when the book already has an open loan;
// on success it appends an open record due one loan period from now.
func (l *Library) Borrow(bookID int64, userID string) (*LendingRecord, error) {
	if _, err := l.FindBook(bookID); err != nil {
		return nil, err
	}
	if l.userByID(userID) == nil {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("user %s not found", userID)}
	}
	if l.openRecordFor(bookID) != nil {
		return nil, &Error{Kind: KindConflict, Message: fmt.Sprintf("book %d is already borrowed", bookID)}
	}

	borrowed := l.now()
	rec := &LendingRecord{
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: borrowed,
		DueDate:    borrowed.Add(l.loanPeriod),
	}
	l.snap.History = append(l.snap.History, rec)
	if err := l.persist(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Return closes the open loan matching (bookID, userID). Returning a book
// that is not on loan to that user fails with NotFound and changes nothing.
func (l *Library) Return(bookID int64, userID string) error {
	for _, r := range l.snap.History {
		if r.BookID == bookID && r.UserID == userID && r.Open() {
			t := l.now()
			r.ReturnedAt = &t
			return l.persist()
		}
	}
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("no open loan of book %d by user %s", bookID, userID),
	}
}

// RecordsFor returns the user's open loans in borrow order.
func (l *Library) RecordsFor(userID string) []*LendingRecord {
	var out []*LendingRecord
	for _, r := range l.snap.History {
		if r.UserID == userID && r.Open() {
			out = append(out, r)
		}
	}
	return out
}

// UserLoans pairs a user with their open loans.
type UserLoans struct {
	User    *User
	Records []*LendingRecord
}

// GroupByUser groups the open loans by borrower. Groups are ordered by the
// first-seen record of each user.
func (l *Library) GroupByUser() []UserLoans {
	index := make(map[string]int)
	var groups []UserLoans
	for _, r := range l.snap.History {
		if !r.Open() {
			continue
		}
		i, ok := index[r.UserID]
		if !ok {
			i = len(groups)
			index[r.UserID] = i
			groups = append(groups, UserLoans{User: l.userByID(r.UserID)})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// History returns all lending records, open and closed, in borrow order.
func (l *Library) History() []*LendingRecord {
	out := make([]*LendingRecord, len(l.snap.History))
	copy(out, l.snap.History)
	return out
}
