package invoke

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is wrapped by *NoMatchError.
	ErrNoMatch = errors.New("no signature matches the arguments")
	// ErrUnknownCommand is returned by Dispatch for a name nothing is registered under.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoOverloads is returned by NewCommand for a definition without signatures.
	ErrNoOverloads = errors.New("command has no signatures")
)

// Failure describes why one signature did not bind.
type Failure struct {
	Signature *Signature
	// Index is the parameter that failed.
	Index      int
	Confidence float64
	Err        error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: parameter %d (confidence %.2f): %v", f.Signature.Usage(), f.Index, f.Confidence, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is the result of one invocation. Exactly one of Matched and Best is
// set when at least one signature was tried without a tokenizer failure.
type Outcome struct {
	Command *Command
	// Matched is the signature whose handler ran.
	Matched *Signature
	// Best is the most confident failing signature when nothing matched.
	Best *Failure
	// Tried counts the signatures attempted.
	Tried int
}

// OK reports whether a handler ran.
func (o Outcome) OK() bool { return o.Matched != nil }

// NoMatchError is returned by Invoke when every signature failed.
type NoMatchError struct {
	Command string
	Best    *Failure
}

func (e *NoMatchError) Error() string {
	if e.Best == nil {
		return fmt.Sprintf("%s: %v", e.Command, ErrNoMatch)
	}
	return fmt.Sprintf("%s: %v, closest: %s", e.Command, ErrNoMatch, e.Best.Signature.Usage())
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }
