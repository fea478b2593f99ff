package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RunRecord describes one completed run stored in the runs table.
type RunRecord struct {
	Input      FileFingerprint
	NumRows    int
	FinishedAt time.Time
}

// RecordRun stores the input fingerprint and row count of a finished run.
func (s *Store) RecordRun(input FileFingerprint, numRows int, finishedAt time.Time) error {
	_, err := s.db.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?)`,
		input.Path, input.Size, storedTime(input.ModTime), int64(numRows), storedTime(finishedAt))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run for an input path, or nil if the
// input was never processed.
func (s *Store) LastRun(path string) (*RunRecord, error) {
	rows, err := s.db.Query(`SELECT input_path, input_size, input_modtime, num_rows, finished_at
		FROM runs WHERE input_path=?
		ORDER BY finished_at DESC LIMIT 1`, path)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var rr RunRecord
	var numRows int64
	if err := rows.Scan(&rr.Input.Path, &rr.Input.Size, &rr.Input.ModTime, &numRows, &rr.FinishedAt); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	rr.NumRows = int(numRows)
	return &rr, nil
}

// Unchanged reports whether the input still matches the fingerprint
// stored for its last run.
func (r *RunRecord) Unchanged(fp FileFingerprint) bool {
	return r.Input.Size == fp.Size && r.Input.ModTime.Equal(storedTime(fp.ModTime))
}

// storedTime matches DuckDB's microsecond TIMESTAMP precision.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
