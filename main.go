package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"lending-library/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	logger *zap.Logger
	lib    *library.Library
)

var rootCmd = &cobra.Command{
	Use:   "lending-library",
	Short: "Browse a book catalog, borrow and return books, manage inventory",
	Long: `lending-library is a local library catalog and lending tracker.

All state lives in a single SQLite snapshot store next to the binary.
Visitors can browse and search the catalog, sign up, borrow and return
books and keep a wishlist; the admin dashboard shows inventory statistics
and the open-loan listing per borrower.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := library.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}

		opts := append(cfg.Options(), library.WithLogger(logger))
		lib, err = library.Open(cfg.DatabasePath, opts...)
		if err != nil {
			return fmt.Errorf("open library: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if lib != nil {
			_ = lib.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// readPassword reads a password without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

func requireLogin() (*library.User, error) {
	u := lib.CurrentUser()
	if u == nil {
		return nil, fmt.Errorf("please login first (lending-library login)")
	}
	return u, nil
}

func parseBookID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid book ID: %s", arg)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Catalog commands
// ---------------------------------------------------------------------------

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Manage and browse the catalog",
}

var (
	searchFlag string
	genreFlag  string
	statusFlag string
)

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := library.Filter{
			Query:  searchFlag,
			Genre:  genreFlag,
			Status: library.BookStatus(statusFlag),
		}
		books := lib.Books(filter)
		if len(books) == 0 {
			fmt.Println("No books match.")
			return nil
		}
		wishlisted := make(map[int64]bool)
		for _, id := range lib.Wishlist() {
			wishlisted[id] = true
		}
		fmt.Printf("%-5s %-35s %-25s %-15s %-10s %s\n", "ID", "Title", "Author", "Genre", "Status", "Wishlist")
		fmt.Println(strings.Repeat("-", 105))
		for _, b := range books {
			wish := ""
			if wishlisted[b.ID] {
				wish = "*"
			}
			fmt.Printf("%-5d %-35s %-25s %-15s %-10s %s\n",
				b.ID, truncateString(b.Title, 35), truncateString(b.Author, 25),
				truncateString(b.Genre, 15), b.Status, wish)
		}
		return nil
	},
}

var (
	titleFlag  string
	authorFlag string
	bGenreFlag string
	coverFlag  string
)

var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new book to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := lib.AddBook(titleFlag, authorFlag, bGenreFlag, coverFlag)
		if err != nil {
			return err
		}
		fmt.Printf("Added book ID %d: %s by %s\n", b.ID, b.Title, b.Author)
		return nil
	},
}

var assumeYes bool

var booksRemoveCmd = &cobra.Command{
	Use:   "remove <book-id>",
	Short: "Remove a book that has no open loan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		book, err := lib.FindBook(id)
		if err != nil {
			return err
		}
		pending, err := lib.RequestRemoveBook(id)
		if err != nil {
			return err
		}
		if !assumeYes && !confirm(fmt.Sprintf("Delete %q", book.Title)) {
			pending.Cancel()
			fmt.Println("Book deletion canceled.")
			return nil
		}
		if err := pending.Confirm(); err != nil {
			return err
		}
		fmt.Printf("Deleted %q\n", book.Title)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Seed an empty catalog from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		books, err := library.LoadSeedFile(args[0])
		if err != nil {
			return err
		}
		if err := lib.Seed(books); err != nil {
			return err
		}
		fmt.Printf("Catalog now holds %d books\n", len(lib.Books(library.Filter{})))
		return nil
	},
}

// ---------------------------------------------------------------------------
// Circulation commands
// ---------------------------------------------------------------------------

var borrowCmd = &cobra.Command{
	Use:   "borrow <book-id>",
	Short: "Borrow an available book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireLogin()
		if err != nil {
			return err
		}
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		rec, err := lib.Borrow(id, user.ID)
		if err != nil {
			return err
		}
		book, _ := lib.FindBook(id)
		fmt.Printf("Borrowed %q, due %s\n", book.Title, rec.DueDate.Format("Mon Jan 2 2006"))
		return nil
	},
}

var returnCmd = &cobra.Command{
	Use:   "return <book-id>",
	Short: "Return a borrowed book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireLogin()
		if err != nil {
			return err
		}
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		if err := lib.Return(id, user.ID); err != nil {
			return err
		}
		book, _ := lib.FindBook(id)
		fmt.Printf("Returned %q\n", book.Title)
		return nil
	},
}

var myBooksCmd = &cobra.Command{
	Use:   "mybooks",
	Short: "List your open loans",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireLogin()
		if err != nil {
			return err
		}
		records := lib.RecordsFor(user.ID)
		if len(records) == 0 {
			fmt.Println("You haven't borrowed any books yet.")
			return nil
		}
		fmt.Printf("%-5s %-35s %-25s %-12s %-12s\n", "ID", "Title", "Author", "Borrowed", "Due")
		fmt.Println(strings.Repeat("-", 95))
		for _, r := range records {
			book, err := lib.FindBook(r.BookID)
			if err != nil {
				return err
			}
			fmt.Printf("%-5d %-35s %-25s %-12s %-12s\n",
				book.ID, truncateString(book.Title, 35), truncateString(book.Author, 25),
				r.BorrowDate.Format("2006-01-02"), r.DueDate.Format("2006-01-02"))
		}
		return nil
	},
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist [book-id]",
	Short: "Show the wishlist, or toggle a book in or out of it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			ids := lib.Wishlist()
			if len(ids) == 0 {
				fmt.Println("Wishlist is empty.")
				return nil
			}
			for _, id := range ids {
				book, err := lib.FindBook(id)
				if err != nil {
					return err
				}
				fmt.Printf("%-5d %s by %s\n", book.ID, book.Title, book.Author)
			}
			return nil
		}
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		added, err := lib.ToggleWishlist(id)
		if err != nil {
			return err
		}
		book, _ := lib.FindBook(id)
		if added {
			fmt.Printf("Added %q to the wishlist\n", book.Title)
		} else {
			fmt.Printf("Removed %q from the wishlist\n", book.Title)
		}
		return nil
	},
}

// ---------------------------------------------------------------------------
// Account commands
// ---------------------------------------------------------------------------

var (
	usernameFlag string
	emailFlag    string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword("Choose a password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		u, err := lib.Signup(usernameFlag, emailFlag, password)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome %s! You can now login with %s\n", u.Username, u.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login with your email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword("Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		u, err := lib.Login(emailFlag, password)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s!\n", u.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout of the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if lib.CurrentUser() == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		pending := lib.RequestLogout()
		if !assumeYes && !confirm("Are you sure you want to logout") {
			pending.Cancel()
			fmt.Println("Logout canceled.")
			return nil
		}
		if err := pending.Confirm(); err != nil {
			return err
		}
		fmt.Println("Logged out successfully!")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := lib.CurrentUser()
		if u == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s>\n", u.Username, u.Email)
		return nil
	},
}

// ---------------------------------------------------------------------------
// Admin commands
// ---------------------------------------------------------------------------

var adminEmailArg string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show library statistics (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := adminEmailArg
		if email == "" {
			fmt.Print("Admin email: ")
			sc := bufio.NewScanner(os.Stdin)
			if sc.Scan() {
				email = strings.TrimSpace(sc.Text())
			}
		}
		ok, err := lib.VerifyAdmin(email)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("invalid email, contact the admin")
		}

		st := lib.Dashboard()
		fmt.Println("Library Statistics")
		fmt.Printf("  Total books:     %d\n", st.TotalBooks)
		fmt.Printf("  Borrowed books:  %d\n", st.BorrowedBooks)
		fmt.Printf("  Available books: %d\n", st.AvailableBooks)

		fmt.Println("\nGenre distribution")
		for genre, count := range st.GenreCounts {
			fmt.Printf("  %-20s %d\n", genre, count)
		}

		fmt.Println("\nOpen loans")
		if len(st.Loans) == 0 {
			fmt.Println("  none")
			return nil
		}
		for _, group := range st.Loans {
			fmt.Printf("  %s <%s>\n", group.User.Username, group.User.Email)
			for _, r := range group.Records {
				book, err := lib.FindBook(r.BookID)
				if err != nil {
					return err
				}
				fmt.Printf("    %s by %s (borrowed %s, due %s)\n",
					book.Title, book.Author,
					r.BorrowDate.Format("2006-01-02"), r.DueDate.Format("2006-01-02"))
			}
		}
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the open loans as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return lib.ExportCSV(os.Stdout)
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := lib.ExportCSV(f); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", exportOut)
		return nil
	},
}

var adminEmailCmd = &cobra.Command{
	Use:   "admin-email [new-email]",
	Short: "Show or change the admin contact email",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := lib.SetAdminEmail(args[0]); err != nil {
				return err
			}
			fmt.Printf("Admin email set to %s\n", strings.ToLower(strings.TrimSpace(args[0])))
			return nil
		}
		email, err := lib.AdminEmail()
		if err != nil {
			return err
		}
		fmt.Println(email)
		return nil
	},
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "library.yaml", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite store (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	booksListCmd.Flags().StringVar(&searchFlag, "search", "", "substring match on title or author")
	booksListCmd.Flags().StringVar(&genreFlag, "genre", "", "exact genre filter")
	booksListCmd.Flags().StringVar(&statusFlag, "status", "", "Available or Borrowed")

	booksAddCmd.Flags().StringVar(&titleFlag, "title", "", "book title")
	booksAddCmd.Flags().StringVar(&authorFlag, "author", "", "book author")
	booksAddCmd.Flags().StringVar(&bGenreFlag, "genre", "", "book genre")
	booksAddCmd.Flags().StringVar(&coverFlag, "cover", "", "cover image URL")

	booksRemoveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	logoutCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	signupCmd.Flags().StringVar(&usernameFlag, "username", "", "display name")
	signupCmd.Flags().StringVar(&emailFlag, "email", "", "account email")
	loginCmd.Flags().StringVar(&emailFlag, "email", "", "account email")

	dashboardCmd.Flags().StringVar(&adminEmailArg, "email", "", "admin email for dashboard access")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	booksCmd.AddCommand(booksListCmd, booksAddCmd, booksRemoveCmd)
	rootCmd.AddCommand(booksCmd, seedCmd, borrowCmd, returnCmd, myBooksCmd,
		wishlistCmd, signupCmd, loginCmd, logoutCmd, whoamiCmd,
		dashboardCmd, exportCmd, adminEmailCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
