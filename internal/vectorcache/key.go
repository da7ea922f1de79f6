package vectorcache

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// keyMaxLen bounds cache keys to the first 100 characters of the normalized
// text. Texts that differ only beyond the boundary collapse to the same key;
// that keeps keys short and stable at the cost of (accepted) collisions.
const keyMaxLen = 100

// Key derives the cache lookup key for a source text: trim, NFC-normalize,
// truncate to keyMaxLen characters.
func Key(text string) string {
	cleaned := norm.NFC.String(strings.TrimSpace(text))

	runes := []rune(cleaned)
	if len(runes) > keyMaxLen {
		return string(runes[:keyMaxLen])
	}
	return cleaned
}
