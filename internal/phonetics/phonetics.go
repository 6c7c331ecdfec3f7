// Package phonetics produces double phonetic codes for street name words.
// A word may have two alternate renderings; matching succeeds if any of the
// up-to-4 cross pairs intersect.
package phonetics

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"street-name-validation/internal/constants"
)

// Code is the double phonetic code of one word. Alternate is empty when the
// word has no distinct secondary rendering.
type Code struct {
	Primary   string
	Alternate string
}

// Encode returns the double metaphone code pair for a word. Deterministic and
// locale-independent over ASCII letters. Callers are expected to pass
// lowercased, trimmed words and to filter out words shorter than three
// characters, which produce unstable codes.
func Encode(word string) Code {
	primary, secondary := matchr.DoubleMetaphone(word)
	if secondary == primary {
		secondary = ""
	}
	return Code{Primary: primary, Alternate: secondary}
}

// Match reports whether any non-empty component of a equals any non-empty
// component of b.
func (a Code) Match(b Code) bool {
	for _, x := range [2]string{a.Primary, a.Alternate} {
		if x == "" {
			continue
		}
		if x == b.Primary || (b.Alternate != "" && x == b.Alternate) {
			return true
		}
	}
	return false
}

// Words tokenizes a name into phonetic codes, one per word longer than two
// characters. Short function words ("of", "la") carry no usable signal and
// are dropped before encoding.
func Words(name string) []Code {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	codes := make([]Code, 0, len(fields))
	for _, w := range fields {
		if utf8.RuneCountInString(w) < constants.MinPhoneticWordLen {
			continue
		}
		codes = append(codes, Encode(w))
	}
	return codes
}
