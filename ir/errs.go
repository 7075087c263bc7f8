package ir

import (
	"errors"
)

var (
	ErrDuplicateKey = errors.New("duplicate map key")
	ErrNotMap       = errors.New("node is not a map")
	ErrUnsupported  = errors.New("unsupported Go value")
)
