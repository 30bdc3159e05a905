package library

import "strings"

// Stats is the read-only aggregate behind the admin dashboard. It is
// recomputed from the current snapshot on every call and mutates nothing.
type Stats struct {
	TotalBooks     int
	BorrowedBooks  int
	AvailableBooks int
	// GenreCounts maps genre to the number of catalog entries in it.
	GenreCounts map[string]int
	// Loans lists each borrower's open loans, ordered by first borrow.
	Loans []UserLoans
}

// Dashboard computes the admin statistics over the current snapshot.
func (l *Library) Dashboard() Stats {
	st := Stats{
		TotalBooks:  len(l.snap.Books),
		GenreCounts: make(map[string]int),
		Loans:       l.GroupByUser(),
	}
	for _, b := range l.snap.Books {
		st.GenreCounts[b.Genre]++
		if b.Status == StatusBorrowed {
			st.BorrowedBooks++
		} else {
			st.AvailableBooks++
		}
	}
	return st
}

// AdminEmail returns the admin contact email, writing the configured default
// on first read.
func (l *Library) AdminEmail() (string, error) {
	email, err := l.store.AdminEmail()
	if err != nil {
		return "", err
	}
	if email == "" {
		email = l.adminEmail
		if err := l.store.SetAdminEmail(email); err != nil {
			return "", err
		}
	}
	return email, nil
}

// SetAdminEmail replaces the admin contact email after validating its shape.
func (l *Library) SetAdminEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return &Error{Kind: KindValidation, Message: "email must look like name@example.com"}
	}
	return l.store.SetAdminEmail(email)
}

// VerifyAdmin reports whether the given email matches the admin contact
// email, case-insensitively. It gates access to the dashboard.
func (l *Library) VerifyAdmin(email string) (bool, error) {
	current, err := l.AdminEmail()
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(email), current), nil
}
