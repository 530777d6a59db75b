package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	venueSuffixRegex    = regexp.MustCompile(`(?i)(餐厅|饭店|酒楼|小吃|restaurant|cafe|bar|diner|bistro|eatery|hotel|museum|park|temple)\s*$`)
	venuePrefixRegex    = regexp.MustCompile(`^(老|新|大|小|the\s+)`)
	punctuationRegex    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// Name length buckets used in grouping signatures.
const (
	bucketShortMax  = 6
	bucketMediumMax = 12
	signaturePrefix = 3
)

// CleanName normalizes a venue name for comparison: lowercases, strips
// common venue-type suffixes and size/age prefixes, drops punctuation and
// collapses whitespace.
func CleanName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = venueSuffixRegex.ReplaceAllString(s, "")
	s = venuePrefixRegex.ReplaceAllString(s, "")
	s = punctuationRegex.ReplaceAllString(s, "")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Signature buckets a cleaned name for duplicate grouping: a fixed-length
// rune prefix plus a coarse length category. Names shorter than the prefix
// are their own signature.
func Signature(cleanName string) string {
	runes := []rune(cleanName)
	if len(runes) < signaturePrefix {
		return cleanName
	}

	prefix := string(runes[:signaturePrefix])

	var bucket string
	switch {
	case len(runes) < bucketShortMax:
		bucket = "short"
	case len(runes) < bucketMediumMax:
		bucket = "medium"
	default:
		bucket = "long"
	}

	return prefix + "_" + bucket
}

// Similar reports whether two cleaned names refer to the same venue.
// Either name containing the other counts as a match, as does a word-set
// overlap of at least threshold relative to the smaller set.
func Similar(a, b string, threshold float64) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return wordOverlap(a, b) >= threshold
}

// wordOverlap returns the fraction of the smaller word set shared with the
// larger one (containment, not symmetric Jaccard).
func wordOverlap(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	smaller, larger := setA, setB
	if len(setB) < len(setA) {
		smaller, larger = setB, setA
	}

	shared := 0
	for w := range smaller {
		if larger[w] {
			shared++
		}
	}

	return float64(shared) / float64(len(smaller))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
