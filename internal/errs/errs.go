// Package errs defines the error taxonomy shared by the ledger, event,
// policy, and storage layers. Handlers translate these into HTTP status
// codes; the core never maps errors to transport concerns itself.
package errs

import "fmt"

// ValidationError indicates malformed or out-of-range input, such as a
// negative payment amount or an empty participant list.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced entity is absent from the current
// table snapshot.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// AuthenticationError indicates no resolvable identity (no session, or an
// invalid/expired token). Maps to 401 at the boundary.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string { return e.Msg }

// AuthorizationError indicates an identity is present but the role is
// insufficient, or the account is not registered yet. Maps to 403 at the
// boundary. Kept distinct from AuthenticationError so clients can choose
// between re-login and a permission-denied message.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// InvalidTransitionError indicates an illegal event status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// ConflictError indicates a stale-write conflict detected by the
// optimistic last-updated check on payment updates.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// PersistenceError wraps a row-store I/O failure. The underlying cause is
// opaque to the core; write-path failures always propagate as this type.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err with the failing operation name.
func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
