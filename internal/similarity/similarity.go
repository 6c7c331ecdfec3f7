// Package similarity decides whether two street names sound alike, combining
// phonetic word codes with normalized edit distance and a first-word
// weighting heuristic.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"street-name-validation/internal/constants"
	"street-name-validation/internal/models"
	"street-name-validation/internal/phonetics"
	"street-name-validation/pkg/utils"
)

// Distance is the classic Levenshtein edit distance (insert/delete/substitute,
// unit cost) over Unicode code points.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// NormalizedDistance divides the edit distance by the longer input's length.
// Inputs are expected pre-normalized (lowercased, whitespace removed) so that
// "North Bay" and "Northbay" compare as contiguous strings. 0 = identical,
// approaching 1 = maximally different.
func NormalizedDistance(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen < 1 {
		maxLen = 1
	}
	return float64(Distance(a, b)) / float64(maxLen)
}

// SoundsSimilar classifies whether two street names sound alike. The verdict
// carries name2 as the matched-against street. MatchRatio is binary: 1 when
// any word pair matched phonetically, else 0.
func SoundsSimilar(name1, name2 string) models.SimilarStreet {
	normalized1 := strings.ToLower(strings.TrimSpace(name1))
	normalized2 := strings.ToLower(strings.TrimSpace(name2))

	// Names shorter than three characters carry too little signal.
	if utf8.RuneCountInString(normalized1) < constants.MinPhoneticWordLen ||
		utf8.RuneCountInString(normalized2) < constants.MinPhoneticWordLen {
		return models.SimilarStreet{StreetName: name2, Similar: false, MatchRatio: 0, NormalizedDistance: 1}
	}

	dist := NormalizedDistance(utils.JoinSquashed(name1), utils.JoinSquashed(name2))

	words1 := phonetics.Words(normalized1)
	words2 := phonetics.Words(normalized2)

	// First hit wins; this is deliberately not a best-match search.
	anyPhoneticMatch := false
	for _, c1 := range words1 {
		for _, c2 := range words2 {
			if c1.Match(c2) {
				anyPhoneticMatch = true
				break
			}
		}
		if anyPhoneticMatch {
			break
		}
	}

	firstWordsSimilar := firstWordsMatch(normalized1, normalized2)

	similar := (firstWordsSimilar && anyPhoneticMatch && dist <= constants.TightDistanceBound) ||
		(firstWordsSimilar && anyPhoneticMatch && dist <= constants.LooseDistanceBound)

	ratio := 0.0
	if anyPhoneticMatch {
		ratio = 1
	}

	return models.SimilarStreet{
		StreetName:         name2,
		Similar:            similar,
		MatchRatio:         ratio,
		NormalizedDistance: dist,
	}
}

// firstWordsMatch weights the leading word of each name: both first words
// must exceed two characters and their phonetic codes must intersect.
func firstWordsMatch(normalized1, normalized2 string) bool {
	f1 := strings.Fields(normalized1)
	f2 := strings.Fields(normalized2)
	if len(f1) == 0 || len(f2) == 0 {
		return false
	}
	w1, w2 := f1[0], f2[0]
	if utf8.RuneCountInString(w1) < constants.MinPhoneticWordLen ||
		utf8.RuneCountInString(w2) < constants.MinPhoneticWordLen {
		return false
	}
	return phonetics.Encode(w1).Match(phonetics.Encode(w2))
}
