package tokenize

import "fmt"

// FailureType tells why tokenization failed.
type FailureType int

const (
	// UnbalancedQuotes is reported for an unterminated quote under StrictQuotes.
	UnbalancedQuotes FailureType = iota + 1
)

func (f FailureType) String() string {
	switch f {
	case UnbalancedQuotes:
		return "Unbalanced quotes"
	default:
		return fmt.Sprintf("failure(%d)", int(f))
	}
}

// Error is a tokenization failure over the byte range [Start, End) of the source.
type Error struct {
	Type  FailureType
	Start int
	End   int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s between characters %d and %d", e.Type, e.Start, e.End)
}
