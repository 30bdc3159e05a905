package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot keys. Each key stores the full current collection as JSON;
// readers treat a missing key as "empty". The admin email lives under its
// own key and is not part of the snapshot write.
const (
	keyBooks       = "books"
	keyHistory     = "borrowingHistory"
	keyWishlist    = "wishlist"
	keyUsers       = "users"
	keyCurrentUser = "currentUser"
	keyAdminEmail  = "adminEmail"
)

// Store persists the library state as key->JSON rows in a SQLite file.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func OpenStore(dbPath string) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS snapshot (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Snapshot load/save
// ---------------------------------------------------------------------------

// get unmarshals the value under key into v. Missing keys return (false, nil)
// and leave v untouched.
func (s *Store) get(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM snapshot WHERE key=?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.UnmarshalFromString(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// LoadSnapshot reads every snapshot key, tolerating absent keys as empty
// collections (or no session for currentUser).
func (s *Store) LoadSnapshot() (*Snapshot, error) {
	snap := &Snapshot{}
	if _, err := s.get(keyBooks, &snap.Books); err != nil {
		return nil, err
	}
	if _, err := s.get(keyHistory, &snap.History); err != nil {
		return nil, err
	}
	if _, err := s.get(keyWishlist, &snap.Wishlist); err != nil {
		return nil, err
	}
	if _, err := s.get(keyUsers, &snap.Users); err != nil {
		return nil, err
	}
	if _, err := s.get(keyCurrentUser, &snap.CurrentUser); err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveSnapshot writes every snapshot key in one transaction, so the persisted
// state is always a complete snapshot and never a partial write.
func (s *Store) SaveSnapshot(snap *Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	put := func(key string, v any) error {
		raw, err := json.MarshalToString(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		_, err = tx.Exec(`INSERT INTO snapshot(key,value) VALUES(?,?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, raw)
		return err
	}

	if err := put(keyBooks, snap.Books); err != nil {
		return err
	}
	if err := put(keyHistory, snap.History); err != nil {
		return err
	}
	if err := put(keyWishlist, snap.Wishlist); err != nil {
		return err
	}
	if err := put(keyUsers, snap.Users); err != nil {
		return err
	}
	if err := put(keyCurrentUser, snap.CurrentUser); err != nil {
		return err
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Admin email (separately keyed)
// ---------------------------------------------------------------------------

// AdminEmail returns the stored admin contact email, or "" when unset.
func (s *Store) AdminEmail() (string, error) {
	var email string
	if _, err := s.get(keyAdminEmail, &email); err != nil {
		return "", err
	}
	return email, nil
}

// SetAdminEmail stores the admin contact email under its own key.
func (s *Store) SetAdminEmail(email string) error {
	raw, err := json.MarshalToString(email)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyAdminEmail, err)
	}
	_, err = s.db.Exec(`INSERT INTO snapshot(key,value) VALUES(?,?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value`, keyAdminEmail, raw)
	return err
}
