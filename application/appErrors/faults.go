package apperrors

import "fmt"

// The fault types below separate caller mistakes from infrastructure trouble
// so handlers can map each to the right HTTP status and the verification
// pipeline can decide which failures are fatal for a request.

// InputError marks a request the caller can fix: bad image payload, missing
// fields, unparseable frames.
type InputError struct {
	Reason string
}

func (e InputError) Error() string {
	return e.Reason
}

// ModelFault marks a failure inside a vision model: embedding produced NaNs,
// cascade failed to load, wrong output dimensionality.
type ModelFault struct {
	Model  string
	Reason string
}

func (e ModelFault) Error() string {
	return fmt.Sprintf("%s: %s", e.Model, e.Reason)
}

// StoreFault marks a failure reading the template store. Undecryptable
// individual records are skipped and counted, not raised; this fault is for
// failures that leave the store unusable.
type StoreFault struct {
	Reason string
	Err    error
}

func (e StoreFault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template store: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("template store: %s", e.Reason)
}

func (e StoreFault) Unwrap() error {
	return e.Err
}

// LookupFault marks a failed authorization rule lookup. The decision layer
// fails closed on it.
type LookupFault struct {
	Err error
}

func (e LookupFault) Error() string {
	return fmt.Sprintf("rule lookup failed: %v", e.Err)
}

func (e LookupFault) Unwrap() error {
	return e.Err
}

// PersistenceFault marks a failed audit write (event, alert or evidence).
// Persistence failures are logged and surfaced but never change an access
// decision that was already made.
type PersistenceFault struct {
	Target string
	Err    error
}

func (e PersistenceFault) Error() string {
	return fmt.Sprintf("failed persisting %s: %v", e.Target, e.Err)
}

func (e PersistenceFault) Unwrap() error {
	return e.Err
}
