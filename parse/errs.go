package parse

import (
	"fmt"

	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/token"
)

type SyntaxError struct {
	Msg string
	Pos token.Pos
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at %s", format.ErrSyntax, e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return format.ErrSyntax
}

func syntaxErr(pos token.Pos, msg string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Pos: pos}
}

type TagError struct {
	Tag string
	Pos token.Pos
	Err error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("#%s at %s: %v", e.Tag, e.Pos, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}
