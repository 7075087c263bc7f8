package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Quote returns v as a double quoted string literal. Control characters are
// written as \u escapes; everything else is written as is.
func Quote(v string) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	for _, r := range v {
		switch r {
		case '"':
			d = append(d, '\\', '"')
		case '\\':
			d = append(d, '\\', '\\')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			if unicode.IsControl(r) {
				d = fmt.Appendf(d, "\\u%04x", r)
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	return string(append(d, '"'))
}

// IsSymbol reports whether name can be written bare after ':' or '#' and
// read back as the same name.
func IsSymbol(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsFunc(name, isDelim) {
		return false
	}
	return utf8.ValidString(name)
}

// IsTagName is IsSymbol restricted to names the lexer reads as tags.
func IsTagName(name string) bool {
	if !IsSymbol(name) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLetter(r)
}
