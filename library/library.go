package library

import (
	"time"

	"go.uber.org/zap"
)

// DefaultLoanPeriod is how long a borrowed book is held before it is due.
const DefaultLoanPeriod = 7 * 24 * time.Hour

// DefaultAdminEmail is written under the admin-email key on first read if
// no admin email has been configured.
const DefaultAdminEmail = "admin@example.com"

// Library is the façade over the persisted snapshot: catalog, lending
// ledger, identity/session, wishlist and the admin views all operate on the
// single in-memory state it owns and write through to its Store.
type Library struct {
	store *Store
	snap  *Snapshot

	log        *zap.Logger
	now        func() time.Time
	ids        IDAllocator
	loanPeriod time.Duration
	seedFile   string
	adminEmail string
}

// Option configures a Library at open time.
type Option func(*Library)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Library) { l.log = log }
}

// WithClock sets the time source, so tests can pin borrow and due dates.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithIDAllocator replaces the default allocator (sequential book ids,
// random UUID user ids).
func WithIDAllocator(ids IDAllocator) Option {
	return func(l *Library) { l.ids = ids }
}

// WithLoanPeriod overrides the default seven-day loan period.
func WithLoanPeriod(d time.Duration) Option {
	return func(l *Library) { l.loanPeriod = d }
}

// WithSeedFile seeds the catalog from the given JSON file when the catalog
// is empty at open time. A failed seed is logged and leaves the catalog
// empty rather than failing the open.
func WithSeedFile(path string) Option {
	return func(l *Library) { l.seedFile = path }
}

// WithDefaultAdminEmail overrides the admin email written on first read.
func WithDefaultAdminEmail(email string) Option {
	return func(l *Library) { l.adminEmail = email }
}

// Open opens (or creates) the library store at dbPath, loads the persisted
// snapshot and rehydrates the session from it.
func Open(dbPath string, opts ...Option) (*Library, error) {
	store, err := OpenStore(dbPath)
	if err != nil {
		return nil, err
	}

	lib := &Library{
		store:      store,
		log:        zap.NewNop(),
		now:        time.Now,
		ids:        defaultAllocator{},
		loanPeriod: DefaultLoanPeriod,
		adminEmail: DefaultAdminEmail,
	}
	for _, opt := range opts {
		opt(lib)
	}

	snap, err := store.LoadSnapshot()
	if err != nil {
		store.Close()
		return nil, err
	}
	lib.snap = snap
	lib.refreshStatuses()

	if lib.seedFile != "" && len(lib.snap.Books) == 0 {
		if err := lib.seedFromFile(lib.seedFile); err != nil {
			lib.log.Warn("seed load failed, starting with an empty catalog",
				zap.String("file", lib.seedFile), zap.Error(err))
		}
	}

	return lib, nil
}

// Close closes the underlying store.
func (l *Library) Close() error { return l.store.Close() }

// persist recomputes derived fields and writes the whole snapshot through.
// Every mutating operation ends here.
func (l *Library) persist() error {
	l.refreshStatuses()
	return l.store.SaveSnapshot(l.snap)
}

// Confirmation defers a destructive operation (book removal, logout) until
// the caller explicitly confirms it. The preconditions were checked when the
// operation was requested and are re-checked on Confirm where they could
// have changed in between.
type Confirmation struct {
	apply func() error
	done  bool
}

// Confirm applies the pending operation. A Confirmation can only be
// resolved once.
func (c *Confirmation) Confirm() error {
	if c.done {
		return &Error{Kind: KindConflict, Message: "operation already resolved"}
	}
	c.done = true
	return c.apply()
}

// Cancel discards the pending operation, leaving all state unchanged.
func (c *Confirmation) Cancel() { c.done = true }
