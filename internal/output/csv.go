// Package output provides report writers for variant statistics.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/inodb/vcfstats/internal/stats"
)

// Columns is the fixed CSV header, in output order.
var Columns = []string{
	"Chr",
	"Pos",
	"Ref",
	"Alt",
	"Var_type",
	"Var_subtype",
	"MAF",
	"PIC",
	"Missing",
	"Num_called",
	"Num_het",
	"Num_hom_alt",
	"Num_hom_ref",
	"Heterozygosity",
	"Nucl_diversity",
}

// CSVWriter writes statistics rows as comma-separated values.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a new CSV writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the header line.
func (cw *CSVWriter) WriteHeader() error {
	return cw.w.Write(Columns)
}

// Write writes a single row.
func (cw *CSVWriter) Write(r stats.StatRow) error {
	return cw.w.Write([]string{
		r.Chrom,
		strconv.FormatInt(r.Pos, 10),
		r.Ref,
		r.Alt,
		r.VarType,
		r.VarSubtype,
		formatFloat(r.MAF),
		formatFloat(r.PIC),
		formatFloat(r.Missing),
		strconv.Itoa(r.NumCalled),
		strconv.Itoa(r.NumHet),
		strconv.Itoa(r.NumHomAlt),
		strconv.Itoa(r.NumHomRef),
		formatFloat(r.Heterozygosity),
		formatFloat(r.NuclDiversity),
	})
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

// WriteTable writes the header followed by every row of t.
func WriteTable(w io.Writer, t *stats.Table) error {
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range t.Rows() {
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("write row %s:%d: %w", r.Chrom, r.Pos, err)
		}
	}
	return cw.Flush()
}

// CSVPath returns the report path for an output prefix.
func CSVPath(prefix string) string {
	return prefix + ".csv"
}

// WriteCSVFile writes t to <prefix>.csv. The table goes to a temporary
// file in the same directory first, so a failed write never leaves a
// truncated report behind.
func WriteCSVFile(prefix string, t *stats.Table) (string, error) {
	pending, err := StageCSVFile(prefix, t)
	if err != nil {
		return "", err
	}
	defer pending.Discard()
	return pending.Commit()
}

// PendingFile is a completely written report that is not yet visible
// under its final name.
type PendingFile struct {
	tmp       string
	path      string
	committed bool
}

// StageCSVFile writes t to a temporary file next to <prefix>.csv.
// Commit moves it into place; Discard removes it.
func StageCSVFile(prefix string, t *stats.Table) (*PendingFile, error) {
	path := CSVPath(prefix)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	tmpName := tmp.Name()

	if err := WriteTable(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("chmod %s: %w", path, err)
	}

	return &PendingFile{tmp: tmpName, path: path}, nil
}

// Path returns the final report path.
func (f *PendingFile) Path() string {
	return f.path
}

// Commit renames the staged report to its final path.
func (f *PendingFile) Commit() (string, error) {
	if err := os.Rename(f.tmp, f.path); err != nil {
		return "", fmt.Errorf("rename output file: %w", err)
	}
	f.committed = true
	return f.path, nil
}

// Discard removes the staged report unless it was committed.
func (f *PendingFile) Discard() {
	if !f.committed {
		os.Remove(f.tmp)
	}
}

// formatFloat uses the shortest representation that round-trips.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
