// Package errorsx tags errors with a reason code so the UI and CLI can pick a
// message without matching on error text.
package errorsx

import "errors"

// coded carries the reason for the first error in a chain that got one.
type coded struct {
	err    error
	reason ReasonCode
}

func (c *coded) Error() string { return c.err.Error() }
func (c *coded) Unwrap() error { return c.err }

// Wrap tags err with reason. A nil err stays nil and an already tagged chain
// keeps its original reason.
func Wrap(err error, reason ReasonCode) error {
	if err == nil {
		return nil
	}
	if _, ok := find(err); ok {
		return err
	}
	return &coded{err: err, reason: reason}
}

// New is errors.New with a reason attached.
func New(reason ReasonCode, message string) error {
	return &coded{err: errors.New(message), reason: reason}
}

// Reason returns the tag on err, or ReasonUnknown.
func Reason(err error) ReasonCode {
	if c, ok := find(err); ok {
		return c.reason
	}
	return ReasonUnknown
}

func HasReason(err error, reason ReasonCode) bool {
	return Reason(err) == reason
}

func find(err error) (*coded, bool) {
	var c *coded
	if err == nil || !errors.As(err, &c) {
		return nil, false
	}
	return c, true
}
