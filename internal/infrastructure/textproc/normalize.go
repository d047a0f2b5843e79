package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer cleans raw extracted text before chunking: canonical NFC
// form, control characters stripped, whitespace runs collapsed to single
// spaces, blank lines dropped and paragraph breaks kept as a single
// newline. Normalize is total and idempotent.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	text = strings.Map(dropControl, text)

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// dropControl removes control characters except the whitespace ones the
// line pass handles itself.
func dropControl(r rune) rune {
	switch r {
	case '\n', '\r', '\t':
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}
