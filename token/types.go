package token

import "fmt"

type TokenType int

const (
	TNil TokenType = iota
	TTrue
	TFalse
	TInteger
	TFloat
	TString
	TKeyword
	TSymbol
	TTag
	TDiscard
	TLBrack
	TRBrack
	TLParen
	TRParen
	TLCurl
	TRCurl
	TSetOpen
)

var typeNames = map[TokenType]string{
	TNil:     "nil",
	TTrue:    "true",
	TFalse:   "false",
	TInteger: "integer",
	TFloat:   "float",
	TString:  "string",
	TKeyword: "keyword",
	TSymbol:  "symbol",
	TTag:     "tag",
	TDiscard: "#_",
	TLBrack:  "[",
	TRBrack:  "]",
	TLParen:  "(",
	TRParen:  ")",
	TLCurl:   "{",
	TRCurl:   "}",
	TSetOpen: "#{",
}

func (t TokenType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsClose reports whether t ends a collection.
func (t TokenType) IsClose() bool {
	return t == TRBrack || t == TRParen || t == TRCurl
}

// Token is a lexical item. Text holds the decoded contents for strings, the
// name for keywords, tags and symbols, and the literal digits for numbers.
type Token struct {
	Type TokenType
	Text string
	Pos  Pos
}

func (t Token) String() string {
	switch t.Type {
	case TString:
		return Quote(t.Text)
	case TKeyword:
		return ":" + t.Text
	case TTag:
		return "#" + t.Text
	case TInteger, TFloat, TSymbol:
		return t.Text
	}
	return t.Type.String()
}
