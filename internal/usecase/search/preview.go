package search

import (
	"unicode/utf8"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// preview returns the first n characters of text, followed by the marker
// only when text is longer than n. Characters are runes, so a multi-byte
// character is never split.
func preview(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	count := 0
	for i := range text {
		if count == n {
			return text[:i] + domain.PreviewMarker
		}
		count++
	}
	return text
}
