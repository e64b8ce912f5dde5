package tlv

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by errors.Is against every decode failure.
var ErrMalformed = errors.New("malformed TLV")

// MalformedError reports where in the buffer decoding failed and why. A
// decode that fails never yields a partial Field.
type MalformedError struct {
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed TLV at offset %d: %s", e.Offset, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }
