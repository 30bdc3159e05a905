package library

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSVSingleRecord(t *testing.T) {
	lib := tempLibrary(t)
	book, err := lib.AddBook(`Say "Hello"`, "Ann Author", "Sci-Fi", "cover.jpg")
	require.NoError(t, err)
	user := addUser(t, lib, "Alice Reader", "alice@example.com")

	_, err = lib.Borrow(book.ID, user.ID)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, lib.ExportCSV(&sb))

	want := "Title,Author,User Name,User Email,Borrowed Date,Due Date\n" +
		`"Say ""Hello""","Ann Author","Alice Reader","alice@example.com",05/01/2024,05/08/2024` + "\n"
	assert.Equal(t, want, sb.String())
}

func TestExportCSVSkipsClosedLoans(t *testing.T) {
	lib := tempLibrary(t)
	dune := addBook(t, lib, "Dune", "Frank Herbert", "Sci-Fi")
	emma := addBook(t, lib, "Emma", "Jane Austen", "Romance")
	user := addUser(t, lib, "Alice Reader", "alice@example.com")

	_, err := lib.Borrow(dune.ID, user.ID)
	require.NoError(t, err)
	_, err = lib.Borrow(emma.ID, user.ID)
	require.NoError(t, err)
	require.NoError(t, lib.Return(dune.ID, user.ID))

	var sb strings.Builder
	require.NoError(t, lib.ExportCSV(&sb))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Emma"`)
	assert.NotContains(t, sb.String(), `"Dune"`)
}

func TestExportCSVEmptyLedger(t *testing.T) {
	lib := tempLibrary(t)

	var sb strings.Builder
	require.NoError(t, lib.ExportCSV(&sb))
	assert.Equal(t, "Title,Author,User Name,User Email,Borrowed Date,Due Date\n", sb.String())
}
