package token

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Lexer produces tokens from a reader.
type Lexer struct {
	r *bufio.Reader

	pos, prev Pos
	back      rune
	hasBack   bool
	eof       bool
}

func NewLexer(r io.Reader) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Lexer{r: br}
}

// Pos returns the position of the next unread rune.
func (lx *Lexer) Pos() Pos {
	return lx.pos
}

func (lx *Lexer) read() (rune, error) {
	if lx.hasBack {
		lx.hasBack = false
		lx.prev = lx.pos
		lx.pos.advance(lx.back, utf8.RuneLen(lx.back))
		return lx.back, nil
	}
	if lx.eof {
		return 0, io.EOF
	}
	r, size, err := lx.r.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			lx.eof = true
		}
		return 0, err
	}
	if r == utf8.RuneError && size == 1 {
		return 0, NewTokenizeErr(ErrBadUTF8, lx.pos)
	}
	lx.prev = lx.pos
	lx.pos.advance(r, size)
	return r, nil
}

// unread pushes back the rune last returned by read. Only one rune of
// pushback is available.
func (lx *Lexer) unread(r rune) {
	lx.back = r
	lx.hasBack = true
	lx.pos = lx.prev
}

func isSpace(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

func isDelim(r rune) bool {
	switch r {
	case '[', ']', '(', ')', '{', '}', '"', ';':
		return true
	}
	return isSpace(r)
}

// Next returns the next token. At the end of input it returns io.EOF.
func (lx *Lexer) Next() (Token, error) {
	r, err := lx.skip()
	if err != nil {
		return Token{}, err
	}
	start := lx.prev
	tok := Token{Pos: start}
	switch r {
	case '[':
		tok.Type = TLBrack
	case ']':
		tok.Type = TRBrack
	case '(':
		tok.Type = TLParen
	case ')':
		tok.Type = TRParen
	case '{':
		tok.Type = TLCurl
	case '}':
		tok.Type = TRCurl
	case '"':
		s, err := lx.quoted(start)
		if err != nil {
			return Token{}, err
		}
		tok.Type = TString
		tok.Text = s
	case ':':
		name, err := lx.name()
		if err != nil {
			return Token{}, err
		}
		if name == "" {
			return Token{}, NewTokenizeErr(ErrEmptyName, start)
		}
		tok.Type = TKeyword
		tok.Text = name
	case '#':
		return lx.dispatch(start)
	default:
		if isDelim(r) {
			return Token{}, UnexpectedErr(r, start)
		}
		lx.unread(r)
		text, err := lx.name()
		if err != nil {
			return Token{}, err
		}
		tok.Text = text
		tok.Type = classify(text)
	}
	return tok, nil
}

func (lx *Lexer) dispatch(start Pos) (Token, error) {
	r, err := lx.read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Token{}, NewTokenizeErr(ErrUnterminated, start)
		}
		return Token{}, err
	}
	tok := Token{Pos: start}
	switch {
	case r == '{':
		tok.Type = TSetOpen
	case r == '_':
		tok.Type = TDiscard
	case r == '#':
		name, err := lx.name()
		if err != nil {
			return Token{}, err
		}
		switch name {
		case "Inf", "-Inf", "NaN":
		default:
			return Token{}, NewTokenizeErr(ErrUnexpected, start)
		}
		tok.Type = TFloat
		tok.Text = "##" + name
	case unicode.IsLetter(r):
		lx.unread(r)
		name, err := lx.name()
		if err != nil {
			return Token{}, err
		}
		tok.Type = TTag
		tok.Text = name
	default:
		return Token{}, UnexpectedErr(r, start)
	}
	return tok, nil
}

// skip consumes whitespace and comments, returning the first rune after
// them.
func (lx *Lexer) skip() (rune, error) {
	for {
		r, err := lx.read()
		if err != nil {
			return 0, err
		}
		if isSpace(r) {
			continue
		}
		if r != ';' {
			return r, nil
		}
		for r != '\n' {
			r, err = lx.read()
			if err != nil {
				return 0, err
			}
		}
	}
}

func (lx *Lexer) name() (string, error) {
	buf := &strings.Builder{}
	for {
		r, err := lx.read()
		if errors.Is(err, io.EOF) {
			return buf.String(), nil
		}
		if err != nil {
			return "", err
		}
		if isDelim(r) {
			lx.unread(r)
			return buf.String(), nil
		}
		buf.WriteRune(r)
	}
}

func classify(text string) TokenType {
	switch text {
	case "nil":
		return TNil
	case "true":
		return TTrue
	case "false":
		return TFalse
	}
	c := text[0]
	if (c == '+' || c == '-') && len(text) > 1 {
		c = text[1]
	}
	if c < '0' || c > '9' {
		return TSymbol
	}
	if strings.HasSuffix(text, "M") || strings.ContainsAny(text, ".eE") {
		return TFloat
	}
	return TInteger
}

func (lx *Lexer) quoted(start Pos) (string, error) {
	buf := &strings.Builder{}
	for {
		r, err := lx.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", NewTokenizeErr(ErrUnterminated, start)
			}
			return "", err
		}
		switch r {
		case '"':
			return buf.String(), nil
		case '\\':
			if err := lx.escape(buf); err != nil {
				return "", err
			}
		default:
			buf.WriteRune(r)
		}
	}
}

func (lx *Lexer) escape(buf *strings.Builder) error {
	at := lx.prev
	r, err := lx.read()
	if err != nil {
		return NewTokenizeErr(ErrUnterminated, at)
	}
	switch r {
	case '"', '\\', '/':
		buf.WriteRune(r)
	case 'n':
		buf.WriteByte('\n')
	case 't':
		buf.WriteByte('\t')
	case 'r':
		buf.WriteByte('\r')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'u':
		u, err := lx.hex4(at)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(u) {
			// a surrogate pair is written as two consecutive \u escapes
			if r1, _ := lx.read(); r1 != '\\' {
				return NewTokenizeErr(ErrBadUnicode, at)
			}
			if r2, _ := lx.read(); r2 != 'u' {
				return NewTokenizeErr(ErrBadUnicode, at)
			}
			u2, err := lx.hex4(at)
			if err != nil {
				return err
			}
			u = utf16.DecodeRune(u, u2)
			if u == unicode.ReplacementChar {
				return NewTokenizeErr(ErrBadUnicode, at)
			}
		}
		buf.WriteRune(u)
	default:
		return NewTokenizeErr(ErrBadEscape, at)
	}
	return nil
}

func (lx *Lexer) hex4(at Pos) (rune, error) {
	var d [4]byte
	for i := range d {
		r, err := lx.read()
		if err != nil || r >= utf8.RuneSelf {
			return 0, NewTokenizeErr(ErrBadUnicode, at)
		}
		d[i] = byte(r)
	}
	v, err := strconv.ParseUint(string(d[:]), 16, 32)
	if err != nil {
		return 0, NewTokenizeErr(ErrBadUnicode, at)
	}
	return rune(v), nil
}
