package library

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// SeedFile mirrors the seed document consumed once at startup: a JSON object
// with a single initialBooks array.
type SeedFile struct {
	InitialBooks []*Book `json:"initialBooks"`
}

// LoadSeedFile reads and parses a seed catalog file.
func LoadSeedFile(path string) ([]*Book, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var doc SeedFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return doc.InitialBooks, nil
}

func (l *Library) seedFromFile(path string) error {
	books, err := LoadSeedFile(path)
	if err != nil {
		return err
	}
	if err := l.Seed(books); err != nil {
		return err
	}
	l.log.Info("catalog seeded", zap.Int("books", len(books)))
	return nil
}
