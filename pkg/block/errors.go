package block

import "errors"

var (
	ErrInvalidLength  = errors.New("invalid length")
	ErrInvalidPadding = errors.New("invalid padding")
)
