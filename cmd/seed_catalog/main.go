package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"lending-library/library"
)

// Standalone importer: reads a seed JSON file ({"initialBooks": [...]}) and
// populates an empty catalog. Safe to re-run; a non-empty catalog is never
// overwritten.
func main() {
	dbPath := flag.String("db", "library.db", "path to the SQLite store")
	seedPath := flag.String("seed", "data.json", "path to the seed JSON file")
	reset := flag.Bool("reset", false, "delete the store before seeding")
	flag.Parse()

	if *reset {
		fmt.Println("Cleaning up existing database files...")
		dbFiles := []string{*dbPath, *dbPath + "-shm", *dbPath + "-wal"}
		for _, file := range dbFiles {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
			}
		}
	}

	lib, err := library.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	books, err := library.LoadSeedFile(*seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading seed file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeding catalog from %s...\n", *seedPath)
	if err := lib.Seed(books); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding catalog: %v\n", err)
		os.Exit(1)
	}

	seeded := lib.Books(library.Filter{})
	fmt.Printf("\nCatalog holds %d books:\n", len(seeded))
	fmt.Printf("%-3s %-50s %-30s %-15s\n", "ID", "Title", "Author", "Genre")
	fmt.Println(strings.Repeat("-", 100))
	for _, book := range seeded {
		fmt.Printf("%-3d %-50s %-30s %-15s\n",
			book.ID, truncateString(book.Title, 50),
			truncateString(book.Author, 30), truncateString(book.Genre, 15))
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
