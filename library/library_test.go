package library

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testTime = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testTime }

// seqAllocator hands out deterministic user ids (u1, u2, ...) and the usual
// sequential book ids.
type seqAllocator struct{ users int }

func (a *seqAllocator) NextBookID(existing []*Book) int64 {
	var max int64
	for _, b := range existing {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

func (a *seqAllocator) NewUserID() string {
	a.users++
	return fmt.Sprintf("u%d", a.users)
}

func openAt(t *testing.T, path string, opts ...Option) *Library {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock), WithIDAllocator(&seqAllocator{})}, opts...)
	lib, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func tempLibrary(t *testing.T, opts ...Option) *Library {
	t.Helper()
	return openAt(t, filepath.Join(t.TempDir(), "test.db"), opts...)
}

func addBook(t *testing.T, lib *Library, title, author, genre string) *Book {
	t.Helper()
	b, err := lib.AddBook(title, author, genre, "https://covers.example/"+title+".jpg")
	if err != nil {
		t.Fatalf("add book %q: %v", title, err)
	}
	return b
}

func addUser(t *testing.T, lib *Library, name, email string) *User {
	t.Helper()
	u, err := lib.Signup(name, email, "secret123")
	if err != nil {
		t.Fatalf("signup %q: %v", name, err)
	}
	return u
}

func writeSeedFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
}

// assertStatusInvariant checks that every book is Borrowed exactly when an
// open lending record references it.
func assertStatusInvariant(t *testing.T, lib *Library) {
	t.Helper()
	for _, b := range lib.Books(Filter{}) {
		open := lib.openRecordFor(b.ID) != nil
		if open && b.Status != StatusBorrowed {
			t.Fatalf("book %d has an open record but status %s", b.ID, b.Status)
		}
		if !open && b.Status != StatusAvailable {
			t.Fatalf("book %d has no open record but status %s", b.ID, b.Status)
		}
	}
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	lib := openAt(t, path)
	book := addBook(t, lib, "Dune", "Frank Herbert", "Sci-Fi")
	user := addUser(t, lib, "Alice Reader", "alice@example.com")
	if _, err := lib.Borrow(book.ID, user.ID); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := lib.ToggleWishlist(book.ID); err != nil {
		t.Fatalf("wishlist: %v", err)
	}
	if _, err := lib.Login("alice@example.com", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	lib.Close()

	reopened := openAt(t, path)
	got, err := reopened.FindBook(book.ID)
	if err != nil {
		t.Fatalf("find after reopen: %v", err)
	}
	if got.Status != StatusBorrowed {
		t.Fatalf("want Borrowed after reopen, got %s", got.Status)
	}
	if len(reopened.RecordsFor(user.ID)) != 1 {
		t.Fatalf("want 1 open record after reopen")
	}
	if wl := reopened.Wishlist(); len(wl) != 1 || wl[0] != book.ID {
		t.Fatalf("wishlist not restored: %v", wl)
	}
	current := reopened.CurrentUser()
	if current == nil || current.ID != user.ID {
		t.Fatalf("session not rehydrated after reopen")
	}
	assertStatusInvariant(t, reopened)
}

func TestOpenWithSeedFile(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "data.json")
	writeSeedFile(t, seedPath, `{
        "initialBooks": [
            {"id": 1, "title": "Dune", "author": "Frank Herbert", "genre": "Sci-Fi", "cover": "dune.jpg", "status": "Available"},
            {"title": "Emma", "author": "Jane Austen", "genre": "Romance", "cover": "emma.jpg", "status": "Available"}
        ]
    }`)

	lib := openAt(t, filepath.Join(dir, "test.db"), WithSeedFile(seedPath))
	books := lib.Books(Filter{})
	if len(books) != 2 {
		t.Fatalf("want 2 seeded books, got %d", len(books))
	}
	// The second seed entry had no id and gets the next sequential one.
	if books[1].ID != 2 {
		t.Fatalf("want assigned id 2, got %d", books[1].ID)
	}
}

func TestOpenWithMissingSeedFileLeavesCatalogEmpty(t *testing.T) {
	dir := t.TempDir()
	lib := openAt(t, filepath.Join(dir, "test.db"), WithSeedFile(filepath.Join(dir, "no-such.json")))
	if got := len(lib.Books(Filter{})); got != 0 {
		t.Fatalf("want empty catalog, got %d books", got)
	}
}

func TestSeedDoesNotOverwriteExistingCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	lib := openAt(t, path)
	addBook(t, lib, "Dune", "Frank Herbert", "Sci-Fi")
	lib.Close()

	seedPath := filepath.Join(dir, "data.json")
	writeSeedFile(t, seedPath, `{"initialBooks": [{"id": 9, "title": "Other", "author": "X Y", "genre": "Z", "cover": "c", "status": "Available"}]}`)

	reopened := openAt(t, path, WithSeedFile(seedPath))
	books := reopened.Books(Filter{})
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Fatalf("seed overwrote an existing catalog: %+v", books)
	}
}
