// Package xerrors implements the typed error taxonomy the triangulation
// pipeline reports failures through: every error the public API returns can
// be traced back to one of a small, fixed set of kinds.
package xerrors

import "fmt"

// Kind classifies why a triangulation failed.
type Kind int

const (
	// InputError means the caller's point set was invalid: too few points,
	// a non-finite coordinate, or a duplicate coordinate pair.
	InputError Kind = iota
	// GeometryInconsistency means a predicate produced a result that
	// contradicts a runtime invariant check. This indicates a robustness
	// bug in the predicate implementation, not a bad input.
	GeometryInconsistency
	// TopologyViolation means a post-operation quad-edge invariant failed.
	// This indicates a splice/connect bug, not a bad input.
	TopologyViolation
	// TransportError means a send/receive between ranks failed: a
	// truncated message, a length mismatch, a vanished peer, or an
	// expired context deadline.
	TransportError
)

func (k Kind) String() string {
	switch k {
	case InputError:
		return "InputError"
	case GeometryInconsistency:
		return "GeometryInconsistency"
	case TopologyViolation:
		return "TopologyViolation"
	case TransportError:
		return "TransportError"
	default:
		return "UnknownError"
	}
}

// Error is the single error type returned by this module. Callers
// discriminate on Kind, not on the message text.
type Error struct {
	Kind     Kind
	Location string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Location)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Location, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error of the given kind at the given location, optionally
// wrapping a lower-level cause.
func New(kind Kind, location string, cause error) *Error {
	return &Error{Kind: kind, Location: location, Err: cause}
}

// Newf is New with a formatted cause, for call sites that have no existing
// error value to wrap.
func Newf(kind Kind, location, format string, args ...any) *Error {
	return &Error{Kind: kind, Location: location, Err: fmt.Errorf(format, args...)}
}
