package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// GTType classifies a sample genotype.
type GTType int

const (
	GTUncalled GTType = iota - 1
	GTHomRef
	GTHet
	GTHomAlt
)

func (t GTType) String() string {
	switch t {
	case GTHomRef:
		return "HOMOZYGOUS_REFERENCE"
	case GTHet:
		return "HETEROZYGOUS"
	case GTHomAlt:
		return "HOMOZYGOUS_ALTERNATE"
	}
	return "UNCALLED"
}

// Call is the genotype call of one sample at one variant.
type Call struct {
	Sample string
	GT     []int // allele indices, -1 for a missing allele
	Phased bool
}

// Called returns true if a genotype is present and no allele is missing.
// A half-missing call such as "./1" is uncalled and contributes no alleles.
func (c *Call) Called() bool {
	if len(c.GT) == 0 {
		return false
	}
	for _, a := range c.GT {
		if a < 0 {
			return false
		}
	}
	return true
}

// GTType returns hom-ref when every allele is the reference, hom-alt when
// every allele is the same alternate and het otherwise.
func (c *Call) GTType() GTType {
	if !c.Called() {
		return GTUncalled
	}
	for _, a := range c.GT[1:] {
		if a != c.GT[0] {
			return GTHet
		}
	}
	if c.GT[0] == 0 {
		return GTHomRef
	}
	return GTHomAlt
}

// GenotypeCounts holds genotype-class counts at a site.
// NumCalled always equals NumHet + NumHomAlt + NumHomRef.
type GenotypeCounts struct {
	NumCalled int
	NumHet    int
	NumHomAlt int
	NumHomRef int
}

func countGenotypes(calls []*Call) GenotypeCounts {
	var gc GenotypeCounts
	for _, c := range calls {
		switch c.GTType() {
		case GTHomRef:
			gc.NumHomRef++
		case GTHet:
			gc.NumHet++
		case GTHomAlt:
			gc.NumHomAlt++
		default:
			continue
		}
		gc.NumCalled++
	}
	return gc
}

// parseGT parses a GT value such as "0/1", "1|1", "./." or "1".
// Allele indices above maxAllele are rejected.
func parseGT(s string, maxAllele int) ([]int, bool, error) {
	if s == "" || s == "." {
		return nil, false, nil
	}
	phased := strings.Contains(s, "|")
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '|' })
	gt := make([]int, len(parts))
	for i, p := range parts {
		if p == "." {
			gt[i] = -1
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false, fmt.Errorf("invalid genotype %q", s)
		}
		if n > maxAllele {
			return nil, false, fmt.Errorf("genotype %q references allele %d, only %d alternates", s, n, maxAllele)
		}
		gt[i] = n
	}
	return gt, phased, nil
}
