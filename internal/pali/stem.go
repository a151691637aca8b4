// Package pali builds the index from Pali word roots to glossary files.
package pali

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// minStemLength is the shortest stem an ending may be cut down to.
const minStemLength = 3

// endings are inflectional and derivational suffixes, longest first.
var endings = func() []string {
	list := []string{
		// verbal
		"essanti", "eyyāsi", "essati", "eyyuṃ", "eyyāma",
		"anti", "enti", "onti", "eyya", "ante", "ssati",
		"ati", "eti", "oti", "ate", "ita", "itvā", "tvā", "ṃsu", "iṃsu",
		// nominal
		"ānaṃ", "ehi", "ebhi", "esu", "assa", "asmā", "amhā", "asmiṃ", "amhi",
		"āya", "ena", "āni", "āyo", "iyo", "ūni",
		"aka", "ikā", "ika", "ana", "aṃ", "iṃ", "uṃ",
		"ā", "o", "e", "a", "i", "ī", "u", "ū", "ṃ",
	}

	sort.SliceStable(list, func(i, j int) bool {
		return utf8.RuneCountInString(list[i]) > utf8.RuneCountInString(list[j])
	})

	return list
}()

// Stem reduces a Pali word to the root used as the index key.
// The word is NFC-normalized and lowercased; the longest known ending is
// removed as long as at least three runes remain.
func Stem(word string) string {
	w := strings.ToLower(norm.NFC.String(strings.TrimSpace(word)))
	length := utf8.RuneCountInString(w)

	for _, ending := range endings {
		if !strings.HasSuffix(w, ending) {
			continue
		}

		if length-utf8.RuneCountInString(ending) >= minStemLength {
			return strings.TrimSuffix(w, ending)
		}
	}

	return w
}
