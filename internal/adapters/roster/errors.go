package roster

import "errors"

// Sentinel kinds for roster I/O errors.
var (
	ErrOpen         = errors.New("open roster failed")
	ErrDecode       = errors.New("decode roster failed")
	ErrMissingField = errors.New("missing required field")
	ErrEncode       = errors.New("encode report failed")
)
