// Package regstore implements the hierarchical key/value store that backs the
// context-menu entry tree. Keys form a tree addressed by backslash-separated
// paths; each key carries named string values. The layout mirrors the schema
// the file-manager host reads, so paths and value names are part of the
// external contract, not an internal choice.
package regstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
)

// PathSep separates key path segments. Fixed by the host's schema.
const PathSep = `\`

// Sentinel errors returned by store operations. Callers match with errors.Is.
var (
	// ErrNotFound is returned when a key or value is absent. For lookups this
	// is frequently an expected outcome rather than a failure.
	ErrNotFound = errors.New("regstore: not found")
	// ErrExists is returned when creating a key that is already present.
	ErrExists = errors.New("regstore: already exists")
	// ErrPermission is returned when the backing database cannot be written.
	ErrPermission = errors.New("regstore: permission denied")
)

// Store is the boundary consumed by the entry tree. All operations address
// keys by full path and re-resolve on every call; nothing is cached between
// calls, so concurrent external mutation is observed immediately.
type Store interface {
	// OpenKey verifies the key at path exists. Returns ErrNotFound otherwise.
	OpenKey(path string) error
	// CreateKey creates the key at path, creating missing ancestors.
	// createdNew reports whether the leaf key was created by this call
	// (false means it already existed).
	CreateKey(path string) (createdNew bool, err error)
	// DeleteTree removes the key at path and its entire subtree.
	DeleteTree(path string) error
	// RenameChild renames the direct child oldLeaf of parentPath to newLeaf,
	// carrying the whole subtree along. Returns ErrExists if newLeaf is taken.
	RenameChild(parentPath, oldLeaf, newLeaf string) error
	// GetValue returns the named value on the key at path. The default value
	// has the empty name. Returns ErrNotFound if the key or value is absent.
	GetValue(path, name string) (string, error)
	// SetValue writes the named value on the key at path.
	// Returns ErrNotFound if the key is absent.
	SetValue(path, name, value string) error
	// DeleteValue removes the named value. Returns ErrNotFound if the key or
	// value is absent.
	DeleteValue(path, name string) error
	// EnumKeys returns the names of the direct children of the key at path,
	// sorted. Returns ErrNotFound if the key itself is absent.
	EnumKeys(path string) ([]string, error)
}

// DB is the SQLite-backed store. The zero-depth paths handed to DB methods
// are absolute; use Hive to obtain a Store scoped under a fixed root.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the store database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("regstore.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("regstore.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Key paths and value names collate NOCASE to mirror the host registry's
// case-insensitive lookups.
func (d *DB) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS keys (
			path   TEXT COLLATE NOCASE PRIMARY KEY,
			parent TEXT COLLATE NOCASE,
			name   TEXT COLLATE NOCASE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS keys_parent ON keys(parent)`,
		`CREATE TABLE IF NOT EXISTS vals (
			key_path TEXT COLLATE NOCASE NOT NULL
				REFERENCES keys(path) ON DELETE CASCADE ON UPDATE CASCADE,
			name     TEXT COLLATE NOCASE NOT NULL,
			value    TEXT NOT NULL,
			PRIMARY KEY (key_path, name)
		)`,
	}

	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Store implementation
// ---------------------------------------------------------------------------

// OpenKey verifies the key at path exists.
func (d *DB) OpenKey(path string) error {
	var one int
	err := d.db.QueryRow(`SELECT 1 FROM keys WHERE path = ?`, path).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: key %q", ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("OpenKey %q: %w", path, mapSQLErr(err))
	}
	return nil
}

// CreateKey creates the key at path along with any missing ancestors.
func (d *DB) CreateKey(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("CreateKey: empty path")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return false, fmt.Errorf("CreateKey %q: %w", path, mapSQLErr(err))
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	segments := strings.Split(path, PathSep)
	prefix := ""
	createdNew := false
	for i, seg := range segments {
		if prefix == "" {
			prefix = seg
		} else {
			prefix = prefix + PathSep + seg
		}
		parent := sql.NullString{}
		if idx := strings.LastIndex(prefix, PathSep); idx >= 0 {
			parent = sql.NullString{String: prefix[:idx], Valid: true}
		}
		res, err := tx.Exec(
			`INSERT INTO keys (path, parent, name) VALUES (?, ?, ?)
			 ON CONFLICT(path) DO NOTHING`,
			prefix, parent, seg,
		)
		if err != nil {
			return false, fmt.Errorf("CreateKey %q: %w", path, mapSQLErr(err))
		}
		if i == len(segments)-1 {
			n, err := res.RowsAffected()
			if err != nil {
				return false, fmt.Errorf("CreateKey %q: %w", path, err)
			}
			createdNew = n > 0
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("CreateKey %q: %w", path, mapSQLErr(err))
	}
	return createdNew, nil
}

// DeleteTree removes the key at path and every descendant. Values are removed
// by the cascade on vals.key_path.
func (d *DB) DeleteTree(path string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("DeleteTree %q: %w", path, mapSQLErr(err))
	}
	defer tx.Rollback() //nolint:errcheck

	var one int
	err = tx.QueryRow(`SELECT 1 FROM keys WHERE path = ?`, path).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: key %q", ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("DeleteTree %q: %w", path, mapSQLErr(err))
	}

	res, err := tx.Exec(
		`DELETE FROM keys WHERE path = ?1 OR path LIKE ?2 ESCAPE '!'`,
		path, escapeLike(path)+PathSep+"%",
	)
	if err != nil {
		return fmt.Errorf("DeleteTree %q: %w", path, mapSQLErr(err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("DeleteTree %q: %w", path, mapSQLErr(err))
	}

	if n, err := res.RowsAffected(); err == nil {
		slog.Debug("regstore: deleted subtree", "path", path, "keys", n)
	}
	return nil
}

// RenameChild renames parentPath's direct child oldLeaf to newLeaf, rewriting
// descendant paths in the same transaction. Value rows follow via the update
// cascade on vals.key_path.
func (d *DB) RenameChild(parentPath, oldLeaf, newLeaf string) error {
	oldPath := parentPath + PathSep + oldLeaf
	newPath := parentPath + PathSep + newLeaf

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("RenameChild %q: %w", oldPath, mapSQLErr(err))
	}
	defer tx.Rollback() //nolint:errcheck

	var one int
	err = tx.QueryRow(`SELECT 1 FROM keys WHERE path = ?`, oldPath).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: key %q", ErrNotFound, oldPath)
	}
	if err != nil {
		return fmt.Errorf("RenameChild %q: %w", oldPath, mapSQLErr(err))
	}

	err = tx.QueryRow(`SELECT 1 FROM keys WHERE path = ?`, newPath).Scan(&one)
	if err == nil {
		return fmt.Errorf("%w: key %q", ErrExists, newPath)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("RenameChild %q: %w", newPath, mapSQLErr(err))
	}

	if _, err := tx.Exec(
		`UPDATE keys SET path = ?1, name = ?2 WHERE path = ?3`,
		newPath, newLeaf, oldPath,
	); err != nil {
		return fmt.Errorf("RenameChild %q: %w", oldPath, mapSQLErr(err))
	}

	// Descendant paths and parents both start with the old path; substr uses
	// SQLite's own character count so multi-byte names stay aligned.
	if _, err := tx.Exec(
		`UPDATE keys
		 SET path   = ?1 || substr(path, length(?2) + 1),
		     parent = ?1 || substr(parent, length(?2) + 1)
		 WHERE path LIKE ?3 ESCAPE '!'`,
		newPath, oldPath, escapeLike(oldPath)+PathSep+"%",
	); err != nil {
		return fmt.Errorf("RenameChild %q: %w", oldPath, mapSQLErr(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("RenameChild %q: %w", oldPath, mapSQLErr(err))
	}
	return nil
}

// GetValue returns the named value on the key at path.
func (d *DB) GetValue(path, name string) (string, error) {
	if err := d.OpenKey(path); err != nil {
		return "", err
	}
	var v string
	err := d.db.QueryRow(
		`SELECT value FROM vals WHERE key_path = ? AND name = ?`, path, name,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: value %q on key %q", ErrNotFound, name, path)
	}
	if err != nil {
		return "", fmt.Errorf("GetValue %q %q: %w", path, name, mapSQLErr(err))
	}
	return v, nil
}

// SetValue writes the named value on the key at path.
func (d *DB) SetValue(path, name, value string) error {
	if err := d.OpenKey(path); err != nil {
		return err
	}
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO vals (key_path, name, value) VALUES (?, ?, ?)`,
		path, name, value,
	)
	if err != nil {
		return fmt.Errorf("SetValue %q %q: %w", path, name, mapSQLErr(err))
	}
	return nil
}

// DeleteValue removes the named value from the key at path.
func (d *DB) DeleteValue(path, name string) error {
	if err := d.OpenKey(path); err != nil {
		return err
	}
	res, err := d.db.Exec(
		`DELETE FROM vals WHERE key_path = ? AND name = ?`, path, name,
	)
	if err != nil {
		return fmt.Errorf("DeleteValue %q %q: %w", path, name, mapSQLErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteValue %q %q: %w", path, name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: value %q on key %q", ErrNotFound, name, path)
	}
	return nil
}

// EnumKeys returns the sorted names of the direct children of the key at path.
func (d *DB) EnumKeys(path string) ([]string, error) {
	if err := d.OpenKey(path); err != nil {
		return nil, err
	}
	rows, err := d.db.Query(
		`SELECT name FROM keys WHERE parent = ? ORDER BY name`, path,
	)
	if err != nil {
		return nil, fmt.Errorf("EnumKeys %q: %w", path, mapSQLErr(err))
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("EnumKeys %q: %w", path, err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ---------------------------------------------------------------------------
// Hives
// ---------------------------------------------------------------------------

// Hive returns a Store view rooted under the named top-level key. Hives stand
// in for the host's predefined root handles; the entry tree receives one at
// construction instead of reaching for ambient global state.
func (d *DB) Hive(name string) Store {
	return &hive{db: d, prefix: name}
}

type hive struct {
	db     *DB
	prefix string
}

func (h *hive) abs(path string) string {
	if path == "" {
		return h.prefix
	}
	return h.prefix + PathSep + path
}

func (h *hive) OpenKey(path string) error { return h.db.OpenKey(h.abs(path)) }

func (h *hive) CreateKey(path string) (bool, error) { return h.db.CreateKey(h.abs(path)) }

func (h *hive) DeleteTree(path string) error { return h.db.DeleteTree(h.abs(path)) }

func (h *hive) RenameChild(parentPath, oldLeaf, newLeaf string) error {
	return h.db.RenameChild(h.abs(parentPath), oldLeaf, newLeaf)
}

func (h *hive) GetValue(path, name string) (string, error) {
	return h.db.GetValue(h.abs(path), name)
}

func (h *hive) SetValue(path, name, value string) error {
	return h.db.SetValue(h.abs(path), name, value)
}

func (h *hive) DeleteValue(path, name string) error {
	return h.db.DeleteValue(h.abs(path), name)
}

func (h *hive) EnumKeys(path string) ([]string, error) {
	return h.db.EnumKeys(h.abs(path))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// escapeLike escapes LIKE wildcards in s using '!' as the escape character.
// '\' cannot serve as the escape character here because it is the path separator.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "!", "!!")
	s = strings.ReplaceAll(s, "%", "!%")
	return strings.ReplaceAll(s, "_", "!_")
}

// mapSQLErr converts driver-level failures into the store's error taxonomy
// where possible, passing anything unrecognised through unchanged.
func mapSQLErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "readonly database") || strings.Contains(msg, "permission denied") {
		return fmt.Errorf("%w: %v", ErrPermission, err)
	}
	return err
}
