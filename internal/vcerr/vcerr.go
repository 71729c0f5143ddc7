// Package vcerr classifies engine errors per the three-tier taxonomy shared
// by every computational engine: Fatal (stop, no output written), Recoverable
// (warn, continue with a partial result), and CycleSilent (log only, no
// change to control flow).
package vcerr

import "fmt"

// Kind is the error taxonomy tier.
type Kind int

const (
	Fatal Kind = iota
	Recoverable
	CycleSilent
)

func (k Kind) String() string {
	switch k {
	case Fatal:
		return "fatal"
	case Recoverable:
		return "recoverable"
	case CycleSilent:
		return "cycle-silent"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with an engine name, operation, and tier.
// In cmd/, any error an engine returns ends the process with exit code 1;
// IsFatal lets a caller tell the Fatal tier apart from the others.
type Error struct {
	Engine string
	Op     string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", e.Engine, e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged Error.
func New(engine, op string, kind Kind, err error) *Error {
	return &Error{Engine: engine, Op: op, Kind: kind, Err: err}
}

// Newf builds a tagged Error from a format string.
func Newf(engine, op string, kind Kind, format string, args ...any) *Error {
	return New(engine, op, kind, fmt.Errorf(format, args...))
}

// IsFatal reports whether err (or any error it wraps) is tagged Fatal.
func IsFatal(err error) bool {
	var e *Error
	for err != nil {
		if ve, ok := err.(*Error); ok {
			e = ve
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == Fatal
}
