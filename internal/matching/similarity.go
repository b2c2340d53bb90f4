package matching

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// TitleSimilarity scores two titles in [0,1] after normalizing both via
// NormalizeTitle. The score is the dice-style ratio 2·LCS/(len(a)+len(b))
// over the normalized strings; edlib supplies the subsequence length and the
// normalization is applied here because edlib's own LCS similarity divides
// by the longer length, which is a different ratio. Symmetric and
// deterministic; identical normalized inputs (including both empty) score
// 1.0, inputs with no common subsequence score 0.
func TitleSimilarity(a, b string) float64 {
	na := NormalizeTitle(a)
	nb := NormalizeTitle(b)
	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}
	common := edlib.LCS(na, nb)
	if common <= 0 {
		return 0.0
	}
	total := utf8.RuneCountInString(na) + utf8.RuneCountInString(nb)
	return 2.0 * float64(common) / float64(total)
}
