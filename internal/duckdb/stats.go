package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcfstats/internal/stats"
)

// rowKey is the composite key for deduplicating rows before writing.
type rowKey struct {
	chrom, ref, alt string
	pos             int64
}

// WriteStatRows batch-inserts rows into DuckDB using the Appender API.
// Rows with a repeated (chrom, pos, ref, alt) key keep the first occurrence;
// rows already stored under the same key are replaced.
func (s *Store) WriteStatRows(rows []stats.StatRow) error {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[rowKey]bool, len(rows))
	deduped := make([]stats.StatRow, 0, len(rows))
	for _, r := range rows {
		k := rowKey{r.Chrom, r.Ref, r.Alt, r.Pos}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if err := appendStaging(conn, deduped); err != nil {
		return err
	}

	ctx := context.Background()
	if _, err := conn.ExecContext(ctx, `INSERT OR REPLACE INTO variant_stats SELECT * FROM variant_stats_staging`); err != nil {
		return fmt.Errorf("merge stat rows: %w", err)
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM variant_stats_staging`); err != nil {
		return fmt.Errorf("clear staging: %w", err)
	}
	return nil
}

// appendStaging writes rows into the staging table on conn.
func appendStaging(conn *sql.Conn, rows []stats.StatRow) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variant_stats_staging")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			r.Chrom, r.Pos, r.Ref, r.Alt, r.VarType, r.VarSubtype,
			r.MAF, r.PIC, r.Missing,
			int64(r.NumCalled), int64(r.NumHet), int64(r.NumHomAlt), int64(r.NumHomRef),
			r.Heterozygosity, r.NuclDiversity,
		); err != nil {
			return fmt.Errorf("append stat row: %w", err)
		}
	}

	return appender.Flush()
}

// ClearStatRows removes all stored rows.
func (s *Store) ClearStatRows() error {
	_, err := s.db.Exec("DELETE FROM variant_stats")
	return err
}

// CountStatRows returns the number of stored rows.
func (s *Store) CountStatRows() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM variant_stats").Scan(&n); err != nil {
		return 0, fmt.Errorf("count stat rows: %w", err)
	}
	return n, nil
}

const statColumns = `chrom, pos, ref, alt, var_type, var_subtype,
		maf, pic, missing,
		num_called, num_het, num_hom_alt, num_hom_ref,
		heterozygosity, nucl_diversity`

// LookupVariant returns the stored rows at a position.
func (s *Store) LookupVariant(chrom string, pos int64) ([]stats.StatRow, error) {
	rows, err := s.db.Query(`SELECT `+statColumns+`
		FROM variant_stats
		WHERE chrom=? AND pos=?
		ORDER BY ref, alt`, chrom, pos)
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}
	defer rows.Close()

	return scanStatRows(rows)
}

// RowsByChrom returns all stored rows on a chromosome ordered by position.
func (s *Store) RowsByChrom(chrom string) ([]stats.StatRow, error) {
	rows, err := s.db.Query(`SELECT `+statColumns+`
		FROM variant_stats
		WHERE chrom=?
		ORDER BY pos, ref, alt`, chrom)
	if err != nil {
		return nil, fmt.Errorf("query by chrom: %w", err)
	}
	defer rows.Close()

	return scanStatRows(rows)
}

// scanStatRows scans rows into StatRow slices.
func scanStatRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]stats.StatRow, error) {
	var results []stats.StatRow
	for rows.Next() {
		var r stats.StatRow
		var called, het, homAlt, homRef int64
		if err := rows.Scan(
			&r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.VarType, &r.VarSubtype,
			&r.MAF, &r.PIC, &r.Missing,
			&called, &het, &homAlt, &homRef,
			&r.Heterozygosity, &r.NuclDiversity,
		); err != nil {
			return nil, fmt.Errorf("scan stat row: %w", err)
		}
		r.NumCalled = int(called)
		r.NumHet = int(het)
		r.NumHomAlt = int(homAlt)
		r.NumHomRef = int(homRef)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stat rows: %w", err)
	}
	return results, nil
}
