package extractor

import (
	"strings"
	"unicode/utf8"
)

// decodePlaintext returns UTF-8 content as-is and falls back to a
// Latin-1 reinterpretation for legacy text files.
func decodePlaintext(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String(), nil
}
