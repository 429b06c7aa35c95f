// Package store owns the durable record of the stand: one in-memory SQLite
// database whose full serialized image is written to a blob store after
// every successful mutation.
//
// The persistence contract: write = mutate, then re-serialize the entire
// database and persist it before returning. Each successful Execute leaves
// a coherent, fully durable snapshot; the cost is O(database size) per
// write, which point-of-sale write volume tolerates.
//
// Concurrency: one writer xor many readers, enforced by an internal RWMutex
// around the database handle. There is exactly one connection; readers must
// consume their rows inside Select so the connection is never shared
// mid-iteration.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/pourhouse/pourhouse/internal/blobstore"
	"github.com/pourhouse/pourhouse/internal/catalog"
)

//go:embed schema.sql
var schemaSQL string

// Engine is the persistent store engine. Create with New, then call Open
// before anything else.
type Engine struct {
	blobs  blobstore.Store
	logger *slog.Logger

	mu    sync.RWMutex // one writer xor many readers
	db    *sql.DB
	conn  *sql.Conn // pinned connection; Serialize/Deserialize need the raw driver conn
	state stateBroadcaster
}

// New creates an engine backed by the given blob store. The engine is
// Uninitialized until Open succeeds.
func New(blobs blobstore.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{blobs: blobs, logger: logger}
}

// State returns the current readiness state.
func (e *Engine) State() State {
	return e.state.current()
}

// Subscribe returns a channel that receives the current state immediately
// and every transition afterwards.
func (e *Engine) Subscribe() <-chan State {
	return e.state.subscribe()
}

// Open loads the persisted image if one exists, or creates and seeds a
// fresh database and persists it immediately.
//
// A present-but-unloadable image is a fatal initialization failure: the
// engine moves to StateFailed and refuses all calls. It never falls back
// to an empty database, because that would silently discard all history.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.current() == StateReady {
		return nil
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return e.fail("open in-memory database", err)
	}
	// A second connection would be a second, empty in-memory database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return e.fail("pin connection", err)
	}
	e.db = db
	e.conn = conn

	encoded, found, err := e.blobs.Get(ImageKey)
	if err != nil {
		e.closeLocked()
		return e.fail("read persisted image", err)
	}

	if found {
		if err := e.loadImage(ctx, encoded); err != nil {
			e.closeLocked()
			return e.fail("load persisted image", err)
		}
		e.logger.Info("database image loaded", "key", ImageKey, "bytes", len(encoded))
	} else {
		if err := e.initFresh(ctx); err != nil {
			e.closeLocked()
			return e.fail("initialize fresh database", err)
		}
		e.logger.Info("fresh database created and seeded")
	}

	if err := e.applyPragmas(ctx); err != nil {
		e.closeLocked()
		return e.fail("apply pragmas", err)
	}

	e.state.set(StateReady)
	return nil
}

// Close releases the database. The engine returns to Uninitialized.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.closeLocked()
	if e.state.current() == StateReady {
		e.state.set(StateUninitialized)
	}
	return err
}

func (e *Engine) closeLocked() error {
	var errs []error
	if e.conn != nil {
		errs = append(errs, e.conn.Close())
		e.conn = nil
	}
	if e.db != nil {
		errs = append(errs, e.db.Close())
		e.db = nil
	}
	return errors.Join(errs...)
}

func (e *Engine) fail(op string, err error) error {
	e.state.set(StateFailed)
	ferr := newError(ErrCodeInitFailed, op, err)
	e.logger.Error("engine initialization failed", "op", op, "err", err)
	return ferr
}

// loadImage decodes the text-safe image and deserializes it into the
// pinned connection's database.
func (e *Engine) loadImage(ctx context.Context, encoded []byte) error {
	raw, err := decodeImage(encoded)
	if err != nil {
		return err
	}
	err = e.conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return sc.Deserialize(raw, "")
	})
	if err != nil {
		return fmt.Errorf("deserialize image: %w", err)
	}
	// A truncated or foreign payload can deserialize yet not be a usable
	// database; probing the schema catches that here instead of on first use.
	var n int
	if err := e.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='transactions'",
	).Scan(&n); err != nil {
		return fmt.Errorf("verify image: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("verify image: transactions table missing")
	}
	return nil
}

// initFresh applies the schema, seeds the default catalog and persists the
// first image so the next startup takes the load path.
func (e *Engine) initFresh(ctx context.Context) error {
	if _, err := e.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	items, err := catalog.DefaultItems()
	if err != nil {
		return err
	}
	for _, item := range items {
		if _, err := e.conn.ExecContext(ctx,
			"INSERT INTO catalog_items (id, name, color, description) VALUES (?, ?, ?, ?)",
			item.ID, item.Name, item.Color, item.Description,
		); err != nil {
			return fmt.Errorf("seed catalog item %s: %w", item.ID, err)
		}
	}

	if err := e.persistLocked(ctx); err != nil {
		return err
	}
	return nil
}

func (e *Engine) applyPragmas(ctx context.Context) error {
	// Referential integrity is enforced, not assumed: a transaction row
	// must reference an existing catalog item at insert time.
	if _, err := e.conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	return nil
}

// Select runs a read-only query and streams rows to fn. The read lock is
// held until all rows are consumed, keeping the single connection free of
// interleaved statements. Before Ready it returns NOT_READY and fn is
// never called.
func (e *Engine) Select(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state.current() != StateReady {
		return newError(ErrCodeNotReady, "query before engine ready", nil)
	}

	rows, err := e.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// Execute performs a mutation, then synchronously re-serializes the entire
// database and persists the image before returning.
//
// If persistence fails, the in-memory database keeps the mutation but the
// returned PERSIST_FAILED error tells the caller that a restart would roll
// it back.
func (e *Engine) Execute(ctx context.Context, query string, args ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.current() != StateReady {
		return newError(ErrCodeNotReady, "execute before engine ready", nil)
	}

	if _, err := e.conn.ExecContext(ctx, query, args...); err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
			return newError(ErrCodeConstraint, "mutation rejected", err)
		}
		return fmt.Errorf("execute: %w", err)
	}

	return e.persistLocked(ctx)
}

// persistLocked serializes the database and writes the encoded image to the
// blob store. Caller holds the write lock.
func (e *Engine) persistLocked(ctx context.Context) error {
	var raw []byte
	err := e.conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		var serr error
		raw, serr = sc.Serialize("")
		return serr
	})
	if err != nil {
		return newError(ErrCodePersistFailed, "serialize image", err)
	}

	if err := e.blobs.Put(ImageKey, encodeImage(raw)); err != nil {
		e.logger.Error("image persist failed", "key", ImageKey, "err", err)
		return newError(ErrCodePersistFailed, "store image", err)
	}
	return nil
}
