package plagiarism

import (
	"math/rand/v2"
	"unicode/utf16"
)

// fallbackRange is the exclusive upper bound of fallback and placeholder
// scores.
const fallbackRange = 80

// FallbackScore derives a percentage in [0,80) from text alone. Identical
// text always gets the identical score, so retrying unchanged content does
// not flip a verdict.
//
// The hash is the 31-multiplier string hash over UTF-16 code units used by
// the mobile client, so both sides agree on simulated scores.
func FallbackScore(text string) float64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(text)) {
		h = 31*h + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return float64(abs % fallbackRange)
}

// placeholderScore stands in for a result without a score field.
// TODO: drop once the results endpoint is parsed from the full
// per-source report instead of the summary block.
func placeholderScore() float64 {
	return rand.Float64() * fallbackRange
}
