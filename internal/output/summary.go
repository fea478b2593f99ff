package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/inodb/vcfstats/internal/stats"
)

// Summary aggregates a result table into run-level figures.
type Summary struct {
	Variants           int
	Transitions        int
	Transversions      int
	Monomorphic        int // sites with MAF == 0
	MeanMAF            float64
	MeanPIC            float64
	MeanMissing        float64
	MeanHeterozygosity float64
}

// TsTv returns the transition/transversion ratio, or 0 without transversions.
func (s Summary) TsTv() float64 {
	if s.Transversions == 0 {
		return 0
	}
	return float64(s.Transitions) / float64(s.Transversions)
}

// Summarize computes a Summary over every row of t.
func Summarize(t *stats.Table) Summary {
	var s Summary
	for _, r := range t.Rows() {
		s.Variants++
		switch r.VarSubtype {
		case "ts":
			s.Transitions++
		case "tv":
			s.Transversions++
		}
		if r.MAF == 0 {
			s.Monomorphic++
		}
		s.MeanMAF += r.MAF
		s.MeanPIC += r.PIC
		s.MeanMissing += r.Missing
		s.MeanHeterozygosity += r.Heterozygosity
	}
	if s.Variants > 0 {
		n := float64(s.Variants)
		s.MeanMAF /= n
		s.MeanPIC /= n
		s.MeanMissing /= n
		s.MeanHeterozygosity /= n
	}
	return s
}

// WriteSummary renders s as a two-column table.
func WriteSummary(w io.Writer, s Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Variants", humanize.Comma(int64(s.Variants))},
		{"Transitions", humanize.Comma(int64(s.Transitions))},
		{"Transversions", humanize.Comma(int64(s.Transversions))},
		{"Ts/Tv", fmt.Sprintf("%.4f", s.TsTv())},
		{"Monomorphic", humanize.Comma(int64(s.Monomorphic))},
		{"Mean MAF", fmt.Sprintf("%.4f", s.MeanMAF)},
		{"Mean PIC", fmt.Sprintf("%.4f", s.MeanPIC)},
		{"Mean missing", fmt.Sprintf("%.4f", s.MeanMissing)},
		{"Mean heterozygosity", fmt.Sprintf("%.4f", s.MeanHeterozygosity)},
	})
	tw.Render()
}
