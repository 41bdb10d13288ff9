//go:build !tinygo && !baremetal

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists the four store keys in a local SQLite database, giving
// the host build real cross-restart persistence (grounded on the
// gg-glitch-88-meshigo-kore/ydin package's store.go, which opens
// github.com/mattn/go-sqlite3 the same way for its own local persistence).
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) a SQLite-backed Store at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS routes (
		dest     INTEGER PRIMARY KEY,
		next_hop INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate sqlite: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) loadByte(key string, def byte) (byte, error) {
	var v int
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("store: load %s: %w", key, err)
	}
	return byte(v), nil
}

func (s *SQLite) saveByte(key string, v byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, int(v),
	)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) LoadNodeID() (byte, error)   { return s.loadByte("nodeId", DefaultNodeID) }
func (s *SQLite) SaveNodeID(id byte) error    { return s.saveByte("nodeId", id) }
func (s *SQLite) LoadParentID() (byte, error) { return s.loadByte("parentNodeId", DefaultParentID) }
func (s *SQLite) SaveParentID(id byte) error  { return s.saveByte("parentNodeId", id) }
func (s *SQLite) LoadDistance() (byte, error) { return s.loadByte("distance", DefaultDistance) }
func (s *SQLite) SaveDistance(d byte) error   { return s.saveByte("distance", d) }

func (s *SQLite) LoadRoutes() ([255]byte, error) {
	var routes [255]byte
	for i := range routes {
		routes[i] = DefaultNodeID
	}

	rows, err := s.db.Query(`SELECT dest, next_hop FROM routes`)
	if err != nil {
		return routes, fmt.Errorf("store: load routes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dest, nextHop int
		if err := rows.Scan(&dest, &nextHop); err != nil {
			return routes, fmt.Errorf("store: scan route: %w", err)
		}
		if dest >= 0 && dest < len(routes) {
			routes[dest] = byte(nextHop)
		}
	}
	return routes, rows.Err()
}

func (s *SQLite) SaveRoute(dest, nextHop byte) error {
	_, err := s.db.Exec(
		`INSERT INTO routes (dest, next_hop) VALUES (?, ?)
		 ON CONFLICT(dest) DO UPDATE SET next_hop = excluded.next_hop`,
		int(dest), int(nextHop),
	)
	if err != nil {
		return fmt.Errorf("store: save route: %w", err)
	}
	return nil
}

func (s *SQLite) SaveRoutes(entries [255]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: save routes: begin: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM routes`); err != nil {
		tx.Rollback()
		return fmt.Errorf("store: save routes: clear: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO routes (dest, next_hop) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("store: save routes: prepare: %w", err)
	}
	defer stmt.Close()

	for dest, nextHop := range entries {
		if dest == 0 || nextHop == DefaultNodeID {
			continue
		}
		if _, err := stmt.Exec(dest, int(nextHop)); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: save routes: insert: %w", err)
		}
	}

	return tx.Commit()
}

var _ Store = (*SQLite)(nil)
