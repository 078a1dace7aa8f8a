package taxonomy

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FallbackID is the identifier used when normalization strips a label
// down to nothing.
const FallbackID = "topic"

// Normalize canonicalizes a free-text label into a stable topic identifier:
// lowercase ASCII alphanumerics separated by single hyphens, no leading or
// trailing hyphen. Input is NFKC-folded first so full-width and composed
// forms slug the same way. Idempotent: normalizing an already-normalized
// identifier returns it unchanged.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(norm.NFKC.String(text)))

	var b strings.Builder
	b.Grow(len(text))
	prevHyphen := true // suppress leading hyphen
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen {
			// Any run of non-alphanumerics collapses to one hyphen
			b.WriteByte('-')
			prevHyphen = true
		}
	}

	id := strings.Trim(b.String(), "-")
	if id == "" {
		return FallbackID
	}
	return id
}
