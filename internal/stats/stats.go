// Package stats computes per-variant population-genetics statistics for
// bi-allelic SNPs and collects them into a result table.
package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/inodb/vcfstats/internal/vcf"
)

// Record is what the statistics computer needs from a variant record.
// *vcf.Variant implements it.
type Record interface {
	Alleles() []string
	IsSNP() bool
	VarType() string
	VarSubtype() string
	AltAlleleFreq() float64
	CallRate() float64
	GenotypeCounts() vcf.GenotypeCounts
	Heterozygosity() float64
	NuclDiversity() float64
}

// StatRow is one output row for an accepted bi-allelic SNP.
type StatRow struct {
	Chrom          string
	Pos            int64
	Ref            string
	Alt            string
	VarType        string
	VarSubtype     string
	MAF            float64
	PIC            float64
	Missing        float64
	NumCalled      int
	NumHet         int
	NumHomAlt      int
	NumHomRef      int
	Heterozygosity float64
	NuclDiversity  float64
}

// ErrUnsupportedVariant is matched by every UnsupportedVariantError.
var ErrUnsupportedVariant = errors.New("only bi-allelic SNPs are supported")

// Rejection reasons.
const (
	ReasonNotSNP       = "not a SNP"
	ReasonNotBiallelic = "not bi-allelic"
)

// UnsupportedVariantError reports a record that is not a bi-allelic SNP.
// It aborts the whole run: statistics over a mixed set of sites are not
// comparable.
type UnsupportedVariantError struct {
	Chrom   string
	Pos     int64
	Alleles []string
	Reason  string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("%s:%d %s is %s: this tool only works for bi-allelic SNPs",
		e.Chrom, e.Pos, strings.Join(e.Alleles, "/"), e.Reason)
}

// Is reports whether target is ErrUnsupportedVariant.
func (e *UnsupportedVariantError) Is(target error) bool {
	return target == ErrUnsupportedVariant
}

// MAF returns the minor allele frequency for alternate allele frequency f.
func MAF(f float64) float64 {
	return math.Min(f, 1-f)
}

// PIC returns the polymorphism information content of a bi-allelic
// marker with minor allele frequency maf.
func PIC(maf float64) float64 {
	p2 := maf * maf
	q2 := (1 - maf) * (1 - maf)
	return 1 - p2 - q2 - 2*p2*q2
}

// Validate checks that r is a bi-allelic SNP. Non-SNPs are rejected
// before the allele count is looked at.
func Validate(chrom string, pos int64, r Record) error {
	alleles := r.Alleles()
	if !r.IsSNP() {
		return &UnsupportedVariantError{Chrom: chrom, Pos: pos, Alleles: alleles, Reason: ReasonNotSNP}
	}
	if len(alleles) != 2 {
		return &UnsupportedVariantError{Chrom: chrom, Pos: pos, Alleles: alleles, Reason: ReasonNotBiallelic}
	}
	return nil
}

// Compute validates r and derives its output row.
func Compute(chrom string, pos int64, r Record) (StatRow, error) {
	if err := Validate(chrom, pos, r); err != nil {
		return StatRow{}, err
	}

	alleles := r.Alleles()
	maf := MAF(r.AltAlleleFreq())
	gc := r.GenotypeCounts()

	return StatRow{
		Chrom:          chrom,
		Pos:            pos,
		Ref:            alleles[0],
		Alt:            alleles[1],
		VarType:        strings.ToUpper(r.VarType()),
		VarSubtype:     r.VarSubtype(),
		MAF:            maf,
		PIC:            PIC(maf),
		Missing:        1 - r.CallRate(),
		NumCalled:      gc.NumCalled,
		NumHet:         gc.NumHet,
		NumHomAlt:      gc.NumHomAlt,
		NumHomRef:      gc.NumHomRef,
		Heterozygosity: r.Heterozygosity(),
		NuclDiversity:  r.NuclDiversity(),
	}, nil
}

// ComputeVariant is Compute for a parsed VCF record.
func ComputeVariant(v *vcf.Variant) (StatRow, error) {
	return Compute(v.Chrom, v.Pos, v)
}
