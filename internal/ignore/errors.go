package ignore

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is the sentinel wrapped by all pattern compilation
// failures, for errors.Is checks at the call site.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

// InvalidPatternError reports a glob pattern that could not be compiled.
// The only way to produce one today is an unterminated bracket class.
type InvalidPatternError struct {
	Pattern string // original pattern text
	Offset  int    // byte offset of the offending construct
	Reason  string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q at offset %d: %s", e.Pattern, e.Offset, e.Reason)
}

func (e *InvalidPatternError) Unwrap() error {
	return ErrInvalidPattern
}
