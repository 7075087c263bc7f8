package compact

import (
	"fmt"

	"github.com/signadot/dynobj/format"
)

type ChecksumError struct {
	Frame     int
	Want, Got uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("frame %d: %s: expected %08x, got %08x", e.Frame, format.ErrChecksum, e.Want, e.Got)
}

func (e *ChecksumError) Unwrap() error {
	return format.ErrChecksum
}

// FormatError reports malformed binary input.
type FormatError struct {
	Frame  int
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("%s: header: %s", format.ErrSyntax, e.Msg)
	}
	return fmt.Sprintf("%s: frame %d offset %d: %s", format.ErrSyntax, e.Frame, e.Offset, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return format.ErrSyntax
}
