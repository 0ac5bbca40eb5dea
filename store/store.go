// Package store persists and restores a workspace's accumulated
// definitions across sessions. It is the domain-stack replacement for
// the teacher's bespoke save.go encoding: instead of a custom binary
// format, it keeps the session's dispatch.Calculator.DefLog — the
// ordered source lines that successfully defined a variable, function,
// or iterative — in a single-table SQLite database and replays them
// through Calculator.Submit on load.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the SQLite database at path and
// ensures the definitions table exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS definitions (
		seq  INTEGER PRIMARY KEY,
		line TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return db, nil
}

// Save replaces the persisted definition log with defs, in order.
func Save(db *sql.DB, defs []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM definitions"); err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO definitions (seq, line) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, line := range defs {
		if _, err := stmt.Exec(i, line); err != nil {
			return fmt.Errorf("store: insert %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Load returns the persisted definition log in its original order.
func Load(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT line FROM definitions ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	var defs []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		defs = append(defs, line)
	}
	return defs, rows.Err()
}
