// Package duckdb persists variant statistics in DuckDB so that results
// from many runs can be queried together.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for variant statistics.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

const statColumnDefs = `
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		var_type VARCHAR,
		var_subtype VARCHAR,
		maf DOUBLE,
		pic DOUBLE,
		missing DOUBLE,
		num_called BIGINT,
		num_het BIGINT,
		num_hom_alt BIGINT,
		num_hom_ref BIGINT,
		heterozygosity DOUBLE,
		nucl_diversity DOUBLE`

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS variant_stats (` +
		statColumnDefs + `,
		PRIMARY KEY (chrom, pos, ref, alt)
	)`); err != nil {
		return err
	}

	// Appender target; rows are merged into variant_stats from here.
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS variant_stats_staging (` +
		statColumnDefs + `
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		input_path VARCHAR,
		input_size BIGINT,
		input_modtime TIMESTAMP,
		num_rows BIGINT,
		finished_at TIMESTAMP
	)`)
	return err
}
