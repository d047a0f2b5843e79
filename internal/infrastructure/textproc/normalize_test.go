package textproc

import "testing"

func TestNormalizeCollapsesWhitespaceAndKeepsParagraphs(t *testing.T) {
	n := NewNormalizer()

	in := "First  line\t with   gaps.\n\n\nSecond paragraph.  \n"
	got := n.Normalize(in)
	want := "First line with gaps.\nSecond paragraph."
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeStripsControlCharacters(t *testing.T) {
	n := NewNormalizer()

	got := n.Normalize("bad\x00byte\x07here")
	if got != "badbytehere" {
		t.Fatalf("Normalize() = %q", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"",
		"plain",
		"  padded  ",
		"line one\r\nline two\r\n",
		"a\n\n\nb\t\tc",
		"unicode café text",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := NewNormalizer()
	if got := n.Normalize(""); got != "" {
		t.Fatalf("Normalize(\"\") = %q, want empty", got)
	}
	if got := n.Normalize("   \n\t  "); got != "" {
		t.Fatalf("Normalize(whitespace) = %q, want empty", got)
	}
}
