package poster

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nonWord matches runs of characters that don't belong in a poster filename.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// SanitizeName collapses every maximal run of non-word characters in a title
// to a single space. Titles are NFC-normalized first so a decomposed accent
// isn't mistaken for a separator.
func SanitizeName(title string) string {
	title = norm.NFC.String(title)
	return strings.TrimSpace(nonWord.ReplaceAllString(title, " "))
}

// VideoName returns the sanitized title with a " (YEAR)" suffix when the
// release year is known.
func VideoName(title string, year int) string {
	name := SanitizeName(title)
	if year > 0 {
		name = fmt.Sprintf("%s (%d)", name, year)
	}
	return name
}
