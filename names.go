package quickbase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// XMLName converts a field label to the tag-like name the service uses in
// XML, e.g. "800 Number" becomes "_800_number" and "A & B" becomes "a___b".
func XMLName(label string) string {
	lower := cases.Lower(language.Und).String(label)

	var b strings.Builder
	b.Grow(len(lower) + 1)
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	name := b.String()
	if first, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(first) {
		name = "_" + name
	}
	return name
}
