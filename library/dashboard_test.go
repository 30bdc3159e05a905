package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	lib := tempLibrary(t)
	dune := addBook(t, lib, "Dune", "Frank Herbert", "Sci-Fi")
	addBook(t, lib, "Neuromancer", "William Gibson", "Sci-Fi")
	addBook(t, lib, "Emma", "Jane Austen", "Romance")
	alice := addUser(t, lib, "Alice Reader", "alice@example.com")

	_, err := lib.Borrow(dune.ID, alice.ID)
	require.NoError(t, err)

	st := lib.Dashboard()
	assert.Equal(t, 3, st.TotalBooks)
	assert.Equal(t, 1, st.BorrowedBooks)
	assert.Equal(t, 2, st.AvailableBooks)
	assert.Equal(t, map[string]int{"Sci-Fi": 2, "Romance": 1}, st.GenreCounts)
	require.Len(t, st.Loans, 1)
	assert.Equal(t, alice.ID, st.Loans[0].User.ID)
	require.Len(t, st.Loans[0].Records, 1)
	assert.Equal(t, dune.ID, st.Loans[0].Records[0].BookID)

	// The dashboard is a pure read: recomputing changes nothing.
	again := lib.Dashboard()
	assert.Equal(t, st.TotalBooks, again.TotalBooks)
	assert.Equal(t, st.GenreCounts, again.GenreCounts)
}

func TestAdminEmailDefaultAndUpdate(t *testing.T) {
	lib := tempLibrary(t, WithDefaultAdminEmail("boss@library.example"))

	email, err := lib.AdminEmail()
	require.NoError(t, err)
	assert.Equal(t, "boss@library.example", email)

	require.NoError(t, lib.SetAdminEmail("  New.Admin@Library.example  "))
	email, err = lib.AdminEmail()
	require.NoError(t, err)
	assert.Equal(t, "new.admin@library.example", email)

	err = lib.SetAdminEmail("not an email")
	assert.True(t, IsKind(err, KindValidation))
}

func TestVerifyAdmin(t *testing.T) {
	lib := tempLibrary(t, WithDefaultAdminEmail("boss@library.example"))

	ok, err := lib.VerifyAdmin("BOSS@Library.Example")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lib.VerifyAdmin("visitor@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
