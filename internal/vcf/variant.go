package vcf

import "strings"

// Variant types reported by VarType.
const (
	TypeSNP     = "snp"
	TypeIndel   = "indel"
	TypeSV      = "sv"
	TypeUnknown = "unknown"
)

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom   string                 // Chromosome name (e.g., "12", "chr12")
	Pos     int64                  // 1-based genomic position
	ID      string                 // Variant identifier (e.g., rs ID)
	Ref     string                 // Reference allele
	Alt     []string               // Alternate alleles, empty when ALT is "."
	Qual    float64                // Quality score
	Filter  string                 // Filter status (PASS or filter name)
	Info    map[string]interface{} // INFO field key-value pairs
	Format  []string               // FORMAT keys, in column order
	Samples []*Call                // One call per sample column
}

// Alleles returns the reference allele followed by the alternates.
func (v *Variant) Alleles() []string {
	alleles := make([]string, 0, len(v.Alt)+1)
	alleles = append(alleles, v.Ref)
	return append(alleles, v.Alt...)
}

// IsSNP returns true if the reference and every alternate are single bases.
func (v *Variant) IsSNP() bool {
	if len(v.Ref) != 1 || len(v.Alt) == 0 {
		return false
	}
	for _, alt := range v.Alt {
		switch alt {
		case "A", "C", "G", "T", "N", "*":
		default:
			return false
		}
	}
	return true
}

// IsSNV returns true if the variant is a single nucleotide variant
// with exactly one alternate allele.
func (v *Variant) IsSNV() bool {
	return len(v.Alt) == 1 && v.IsSNP()
}

// IsIndel returns true if any alternate changes the allele length.
func (v *Variant) IsIndel() bool {
	if len(v.Alt) == 0 || v.IsSV() {
		return false
	}
	if len(v.Ref) > 1 {
		return true
	}
	for _, alt := range v.Alt {
		if alt == "*" {
			continue
		}
		if len(alt) != len(v.Ref) {
			return true
		}
	}
	return false
}

// IsSV returns true for symbolic (<DEL>, <DUP:TANDEM>) or breakend alternates.
func (v *Variant) IsSV() bool {
	for _, alt := range v.Alt {
		if isSymbolic(alt) {
			return true
		}
	}
	return false
}

// IsTransition returns true for a bi-allelic SNP that stays within
// purines (A<->G) or pyrimidines (C<->T). Bases are compared as written,
// so a lowercase REF is never a transition.
func (v *Variant) IsTransition() bool {
	if len(v.Alt) != 1 || !v.IsSNP() {
		return false
	}
	switch v.Ref + v.Alt[0] {
	case "AG", "GA", "CT", "TC":
		return true
	}
	return false
}

// VarType classifies the variant as snp, indel, sv or unknown.
func (v *Variant) VarType() string {
	switch {
	case v.IsSNP():
		return TypeSNP
	case v.IsSV():
		return TypeSV
	case v.IsIndel():
		return TypeIndel
	}
	return TypeUnknown
}

// VarSubtype refines VarType: ts/tv for bi-allelic SNPs, ins/del for indels and the
// symbolic allele type for structural variants.
func (v *Variant) VarSubtype() string {
	switch v.VarType() {
	case TypeSNP:
		if v.IsTransition() {
			return "ts"
		}
		if len(v.Alt) == 1 {
			return "tv"
		}
		return TypeUnknown
	case TypeIndel:
		if len(v.Alt) > 1 {
			return TypeUnknown
		}
		switch {
		case len(v.Ref) > len(v.Alt[0]):
			return "del"
		case len(v.Ref) < len(v.Alt[0]):
			return "ins"
		}
		return TypeUnknown
	case TypeSV:
		alt := v.Alt[0]
		if strings.HasPrefix(alt, "<") && strings.HasSuffix(alt, ">") {
			return strings.TrimSuffix(strings.TrimPrefix(alt, "<"), ">")
		}
		return "complex"
	}
	return TypeUnknown
}

// GenotypeCounts returns the genotype-class counts over all samples.
// The variant is not modified.
func (v *Variant) GenotypeCounts() GenotypeCounts {
	return countGenotypes(v.Samples)
}

// AAF returns the frequency of each alternate allele among called
// allele copies. Frequencies are 0 when no sample is called.
func (v *Variant) AAF() []float64 {
	freqs := make([]float64, len(v.Alt))
	var chroms int
	copies := make([]int, len(v.Alt)+1)
	for _, c := range v.Samples {
		if !c.Called() {
			continue
		}
		for _, a := range c.GT {
			if a < len(copies) {
				copies[a]++
			}
			chroms++
		}
	}
	if chroms == 0 {
		return freqs
	}
	for i := range freqs {
		freqs[i] = float64(copies[i+1]) / float64(chroms)
	}
	return freqs
}

// AltAlleleFreq returns the frequency of the first alternate allele.
func (v *Variant) AltAlleleFreq() float64 {
	aaf := v.AAF()
	if len(aaf) == 0 {
		return 0
	}
	return aaf[0]
}

// CallRate returns the fraction of samples with a non-missing genotype.
func (v *Variant) CallRate() float64 {
	if len(v.Samples) == 0 {
		return 0
	}
	return float64(v.GenotypeCounts().NumCalled) / float64(len(v.Samples))
}

// Heterozygosity returns 1 - sum(p^2) over reference and alternate
// allele frequencies.
func (v *Variant) Heterozygosity() float64 {
	aaf := v.AAF()
	refFreq := 1.0
	sumSq := 0.0
	for _, f := range aaf {
		refFreq -= f
		sumSq += f * f
	}
	sumSq += refFreq * refFreq
	return 1 - sumSq
}

// NuclDiversity returns the unbiased pairwise diversity estimate
// n/(n-1) * 2pq for a diploid SNP site, where n = 2 * called samples.
func (v *Variant) NuclDiversity() float64 {
	if !v.IsSNP() {
		return 0
	}
	n := float64(2 * v.GenotypeCounts().NumCalled)
	if n <= 1 {
		return 0
	}
	p := v.AltAlleleFreq()
	q := 1 - p
	return n / (n - 1) * (2 * p * q)
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

func isSymbolic(alt string) bool {
	if strings.HasPrefix(alt, "<") {
		return true
	}
	// breakend notation, e.g. G]17:198982] or ]13:123456]T
	return strings.ContainsAny(alt, "[]")
}
