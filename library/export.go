package library

import (
	"fmt"
	"io"
	"strings"
)

const csvHeader = "Title,Author,User Name,User Email,Borrowed Date,Due Date\n"

// csvDateFormat renders dates in the short form used by the export.
const csvDateFormat = "01/02/2006"

// ExportCSV writes the borrowing history as CSV: the header plus one row per
// open lending record. Text fields are always double-quoted with embedded
// quotes doubled; the date fields are bare.
func (l *Library) ExportCSV(w io.Writer) error {
	if _, err := io.WriteString(w, csvHeader); err != nil {
		return err
	}
	for _, r := range l.snap.History {
		if !r.Open() {
			continue
		}
		book, err := l.FindBook(r.BookID)
		if err != nil {
			return fmt.Errorf("export record for book %d: %w", r.BookID, err)
		}
		user := l.userByID(r.UserID)
		if user == nil {
			return fmt.Errorf("export record for book %d: user %s not found", r.BookID, r.UserID)
		}
		row := fmt.Sprintf("%s,%s,%s,%s,%s,%s\n",
			csvQuote(book.Title),
			csvQuote(book.Author),
			csvQuote(user.Username),
			csvQuote(user.Email),
			r.BorrowDate.Format(csvDateFormat),
			r.DueDate.Format(csvDateFormat),
		)
		if _, err := io.WriteString(w, row); err != nil {
			return err
		}
	}
	return nil
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
