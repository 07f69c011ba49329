// Package store wraps the persistent SQLite-backed symbol store described
// in spec.md §4.5: schema creation from the registry, a prepared insert
// statement reused across records, delete-by-file, and transaction helpers.
// Grounded on the teacher's store.Store (mvp-joe-canopy/internal/store) and
// the WAL/busy-timeout pragma idiom from termfx-morfx/internal/db.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jward/codeidx/internal/recordbuf"
	"github.com/jward/codeidx/schema"
)

// Store is the SQLite data access layer for the records table.
type Store struct {
	db         *sql.DB
	insertStmt *sql.Stmt
}

// Open opens or creates the SQLite file at path, sets WAL mode, a
// synchronous=NORMAL pragma, and a 5-second busy timeout (spec.md §4.5),
// creates the schema idempotently from the registry, and prepares the
// reusable insert statement.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf(
		"%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON",
		path,
	)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema.CreateTableSQL()); err != nil {
		return fmt.Errorf("store: create table: %w", err)
	}
	for _, stmt := range schema.IndexStatements() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: create index: %w", err)
		}
	}
	return nil
}

func (s *Store) prepare() error {
	stmt, err := s.db.Prepare(schema.InsertSQL())
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	s.insertStmt = stmt
	return nil
}

// DB returns the underlying *sql.DB for use by the query planner.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close finalizes prepared statements and closes the database.
func (s *Store) Close() error {
	if s.insertStmt != nil {
		_ = s.insertStmt.Close()
	}
	return s.db.Close()
}

// Tx wraps a started transaction so callers can rebind the insert statement
// to it (sql.Stmt.Tx) while keeping delete/insert inside one transaction,
// per spec.md §4.5/§5 ordering guarantee.
type Tx struct {
	tx         *sql.Tx
	insertStmt *sql.Stmt
}

// Begin starts a transaction and returns a Tx bound to it.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}
	return &Tx{tx: tx, insertStmt: tx.Stmt(s.insertStmt)}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Safe to call after a successful Commit
// (it is then a no-op per database/sql semantics).
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// DeleteByFile removes every row for (directory, filename), the
// precondition spec.md §3/§5 requires before any re-parse insert.
func (t *Tx) DeleteByFile(directory, filename string) error {
	_, err := t.tx.Exec(
		"DELETE FROM records WHERE directory = ? AND filename = ?",
		directory, filename,
	)
	if err != nil {
		return fmt.Errorf("store: delete by file %s/%s: %w", directory, filename, err)
	}
	return nil
}

// Insert binds and executes the prepared insert statement for one record.
// Every string argument is passed by value (Go strings are immutable), so
// this satisfies the "deep-copy on insert" contract of spec.md §4.5/§5
// without an explicit copy: the record buffer may be reused or reset by the
// caller immediately after Insert returns.
func (t *Tx) Insert(r recordbuf.Record) error {
	args := bindArgs(r)
	if _, err := t.insertStmt.Exec(args...); err != nil {
		return fmt.Errorf("store: insert %q: %w", r.Symbol, err)
	}
	return nil
}

// bindArgs produces insert arguments in exactly schema.AllColumnNames()
// order.
func bindArgs(r recordbuf.Record) []any {
	isDef := 0
	if r.Ext.IsDefinition {
		isDef = 1
	}
	return []any{
		r.Symbol,
		r.Directory,
		r.Filename,
		r.Line,
		r.Context,
		r.FullSymbol,
		nullableString(r.SourceLocation),
		nullableString(r.Ext.ParentSymbol),
		nullableString(r.Ext.Scope),
		nullableString(r.Ext.Namespace),
		nullableString(r.Ext.Modifier),
		nullableString(r.Ext.Type),
		nullableString(r.Ext.Clue),
		isDef,
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ReindexFile deletes any existing rows for (directory, filename) and
// inserts every record in records, all inside one transaction, per
// spec.md §4.8 step 5 and the idempotent re-index invariant of §8. An
// empty records slice still runs the delete (an empty re-parse
// legitimately removes all prior rows for that file, e.g. the file is
// now empty); callers that must preserve prior rows when parsing fails
// should not call ReindexFile at all, per §8's "no successful parse =>
// no delete" boundary case.
func (s *Store) ReindexFile(directory, filename string, records []recordbuf.Record) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.DeleteByFile(directory, filename); err != nil {
		return err
	}
	for _, r := range records {
		if err := tx.Insert(r); err != nil {
			return err
		}
	}
	return tx.Commit()
}
