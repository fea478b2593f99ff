package stats

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/inodb/vcfstats/internal/vcf"
)

// Aggregate reads every record from src in order and builds the result
// table. The first parse error or unsupported variant aborts the run and
// no table is returned.
func Aggregate(src vcf.VariantParser, run *Run) (*Table, error) {
	logger := run.Logger()
	table := NewTable()

	for {
		v, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}

		row, err := ComputeVariant(v)
		if err != nil {
			logger.Error("unsupported variant",
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos),
				zap.Int("line", src.LineNumber()),
				zap.Error(err))
			return nil, fmt.Errorf("line %d: %w", src.LineNumber(), err)
		}
		table.Append(row)
	}

	logger.Info(fmt.Sprintf("%s variants processed", humanize.Comma(int64(table.Len()))))

	return table, nil
}
