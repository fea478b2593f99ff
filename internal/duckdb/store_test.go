package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcfstats/internal/stats"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRows() []stats.StatRow {
	return []stats.StatRow{
		{
			Chrom: "1", Pos: 1000, Ref: "A", Alt: "G",
			VarType: "SNP", VarSubtype: "ts",
			MAF: 0.25, PIC: 0.3046875, Missing: 0.1,
			NumCalled: 90, NumHet: 30, NumHomAlt: 15, NumHomRef: 45,
			Heterozygosity: 0.375, NuclDiversity: 0.377,
		},
		{
			Chrom: "1", Pos: 500, Ref: "C", Alt: "A",
			VarType: "SNP", VarSubtype: "tv",
			MAF: 0.5, PIC: 0.375,
			NumCalled: 2, NumHet: 2,
			Heterozygosity: 0.5, NuclDiversity: 0.667,
		},
		{
			Chrom: "2", Pos: 7, Ref: "G", Alt: "T",
			VarType: "SNP", VarSubtype: "tv",
			NumCalled: 4, NumHomRef: 4,
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteStatRows(testRows()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountStatRows()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWriteAndLookupStatRows(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteStatRows(testRows()))

	rows, err := s.LookupVariant("1", 1000)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, testRows()[0], rows[0])

	rows, err = s.LookupVariant("1", 99999)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteStatRows_Empty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteStatRows(nil))

	n, err := s.CountStatRows()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWriteStatRows_Deduplicates(t *testing.T) {
	s := openInMemory(t)

	rows := testRows()
	dup := rows[0]
	dup.MAF = 0.4
	rows = append(rows, dup)
	require.NoError(t, s.WriteStatRows(rows))

	n, err := s.CountStatRows()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	found, err := s.LookupVariant("1", 1000)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 0.25, found[0].MAF, "first occurrence wins")
}

func TestWriteStatRows_ReplacesExisting(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteStatRows(testRows()))

	updated := testRows()[:1]
	updated[0].Missing = 0.2
	require.NoError(t, s.WriteStatRows(updated))

	n, err := s.CountStatRows()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	found, err := s.LookupVariant("1", 1000)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 0.2, found[0].Missing)
}

func TestRowsByChrom(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteStatRows(testRows()))

	rows, err := s.RowsByChrom("1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(500), rows[0].Pos)
	assert.Equal(t, int64(1000), rows[1].Pos)

	rows, err = s.RowsByChrom("X")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClearStatRows(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteStatRows(testRows()))
	require.NoError(t, s.ClearStatRows())

	n, err := s.CountStatRows()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRecordRun(t *testing.T) {
	s := openInMemory(t)

	input := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(input, []byte("##fileformat=VCFv4.2\n"), 0644))
	fp, err := StatFile(input)
	require.NoError(t, err)

	last, err := s.LastRun(input)
	require.NoError(t, err)
	assert.Nil(t, last)

	first := time.Date(2021, 1, 25, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(fp, 3, first))
	require.NoError(t, s.RecordRun(fp, 5, first.Add(time.Hour)))

	last, err = s.LastRun(input)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 5, last.NumRows)
	assert.Equal(t, input, last.Input.Path)
	assert.True(t, last.Unchanged(fp))

	changed := fp
	changed.Size++
	assert.False(t, last.Unchanged(changed))
}

func TestStatFile_Missing(t *testing.T) {
	_, err := StatFile(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.Error(t, err)
}
