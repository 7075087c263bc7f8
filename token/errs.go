package token

import (
	"errors"
	"fmt"
)

var (
	ErrBadUTF8      = errors.New("bad utf8")
	ErrUnterminated = errors.New("unterminated")
	ErrBadEscape    = errors.New("bad escape")
	ErrBadUnicode   = errors.New("bad unicode")
	ErrUnexpected   = errors.New("unexpected character")
	ErrEmptyName    = errors.New("empty name")
)

type TokenizeErr struct {
	Err error
	Pos Pos
}

func NewTokenizeErr(e error, pos Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: pos}
}

func (t *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", t.Err.Error(), t.Pos)
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func UnexpectedErr(r rune, pos Pos) error {
	return NewTokenizeErr(fmt.Errorf("%w %q", ErrUnexpected, r), pos)
}
