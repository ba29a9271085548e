package services

import "fmt"

// ValidationError rejects a single input without advancing the dialog.
// The session survives and the user is re-prompted with Msg.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// MediaError signals that an attachment could not be fetched or stored.
// The session survives so the user can retry the same step.
type MediaError struct {
	Op  string
	Err error
}

func (e *MediaError) Error() string { return fmt.Sprintf("media %s: %v", e.Op, e.Err) }

func (e *MediaError) Unwrap() error { return e.Err }

// StoreError signals a failed commit at a terminal state. The flow is
// abandoned and the session cleared rather than retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
