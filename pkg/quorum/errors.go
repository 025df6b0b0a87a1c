package quorum

import "fmt"

// IllegalTransitionError reports a transition rejected by its own
// precondition check: a stale epoch, a role that cannot reach the
// requested one, or a caller that is not a voter.
type IllegalTransitionError struct {
	msg string
}

func (e *IllegalTransitionError) Error() string { return e.msg }

func illegalTransitionf(format string, args ...interface{}) *IllegalTransitionError {
	return &IllegalTransitionError{msg: fmt.Sprintf(format, args...)}
}

// IllegalStateError reports a durable election record that cannot be
// reconciled into any valid starting role, such as a stored vote on a
// replica with no local id. The XxxStateOrErr accessors also return it
// when the active role is not the one requested.
type IllegalStateError struct {
	msg string
}

func (e *IllegalStateError) Error() string { return e.msg }

func illegalStatef(format string, args ...interface{}) *IllegalStateError {
	return &IllegalStateError{msg: fmt.Sprintf(format, args...)}
}
