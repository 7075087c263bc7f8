// Package token provides tokenization of the text notation.
//
// A [Lexer] reads tokens from an io.Reader one at a time, so arbitrarily
// long streams of top-level values can be read without buffering them. Commas
// count as whitespace and ';' starts a comment running to the end of the line;
// neither produces a token.
//
// [Quote] and [IsSymbol] are the printer-side counterparts used by the
// encode package.
package token
