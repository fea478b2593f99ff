package stats

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vcfstats/internal/vcf"
)

const header = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\tS3\tS4\n"

func newParser(t *testing.T, body string) *vcf.Parser {
	t.Helper()
	p, err := vcf.NewParserFromReader(strings.NewReader(header + body))
	require.NoError(t, err)
	return p
}

func TestAggregate_PreservesOrder(t *testing.T) {
	p := newParser(t,
		"2\t500\t.\tC\tT\t.\tPASS\t.\tGT\t0/1\t0/0\t0/0\t0/0\n"+
			"1\t100\t.\tA\tG\t.\tPASS\t.\tGT\t0/0\t0/1\t1/1\t./.\n"+
			"1\t100\t.\tA\tG\t.\tPASS\t.\tGT\t0/0\t0/0\t0/0\t0/0\n")

	table, err := Aggregate(p, nil)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	rows := table.Rows()
	assert.Equal(t, "2", rows[0].Chrom)
	assert.Equal(t, int64(500), rows[0].Pos)
	assert.Equal(t, int64(100), rows[1].Pos)
	assert.Equal(t, int64(100), rows[2].Pos, "duplicates are kept")

	assert.InDelta(t, 0.125, rows[0].MAF, 1e-12)
	assert.InDelta(t, 0.5, rows[1].MAF, 1e-12)
	assert.InDelta(t, 0.25, rows[1].Missing, 1e-12)
	assert.Equal(t, 0.0, rows[2].MAF)

	for _, r := range rows {
		assert.Equal(t, r.NumCalled, r.NumHet+r.NumHomAlt+r.NumHomRef)
		assert.LessOrEqual(t, r.MAF, 0.5)
	}
}

func TestAggregate_AbortsOnUnsupportedVariant(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
	}{
		{
			name: "triallelic after valid records",
			body: "1\t100\t.\tA\tG\t.\tPASS\t.\tGT\t0/0\t0/1\t1/1\t./.\n" +
				"1\t200\t.\tC\tA\t.\tPASS\t.\tGT\t0/0\t0/0\t0/1\t0/0\n" +
				"1\t300\t.\tA\tG,T\t.\tPASS\t.\tGT\t0/1\t0/2\t0/0\t0/0\n" +
				"1\t400\t.\tC\tA\t.\tPASS\t.\tGT\t0/0\t0/0\t0/1\t0/0\n",
			line: 5,
		},
		{
			name: "indel first",
			body: "1\t100\t.\tAT\tA\t.\tPASS\t.\tGT\t0/0\t0/1\t1/1\t./.\n",
			line: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			run := NewRun("vcfstats", zap.New(core))

			table, err := Aggregate(newParser(t, tt.body), run)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, ErrUnsupportedVariant))
			assert.Contains(t, err.Error(), fmt.Sprintf("line %d:", tt.line))
			assert.Equal(t, 1, logs.FilterMessage("unsupported variant").Len())
		})
	}
}

func TestAggregate_PropagatesParseError(t *testing.T) {
	p := newParser(t,
		"1\t100\t.\tA\tG\t.\tPASS\t.\tGT\t0/0\t0/1\t1/1\t./.\n"+
			"1\tnotanumber\t.\tA\tG\t.\tPASS\t.\tGT\t0/0\t0/1\t1/1\t./.\n")

	table, err := Aggregate(p, nil)
	assert.Nil(t, table)

	var perr *vcf.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 4, perr.Line)
}

func TestAggregate_Empty(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	table, err := Aggregate(newParser(t, ""), NewRun("vcfstats", zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 1, logs.FilterMessage("0 variants processed").Len())
}

func TestAggregate_Deterministic(t *testing.T) {
	body := "1\t100\t.\tA\tG\t.\tPASS\t.\tGT\t0/0\t0/1\t1/1\t./.\n" +
		"1\t200\t.\tC\tA\t.\tPASS\t.\tGT\t0/0\t0/0\t0/1\t0/0\n"

	core, logs := observer.New(zap.InfoLevel)
	first, err := Aggregate(newParser(t, body), NewRun("vcfstats", zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("2 variants processed").Len())

	second, err := Aggregate(newParser(t, body), nil)
	require.NoError(t, err)

	assert.Equal(t, first.Rows(), second.Rows())
}
