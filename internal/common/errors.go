package common

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed event data before a notification is
// built.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// AuthorizationError is returned when an operation scoped to one user is
// attempted against another user's records. It is surfaced explicitly,
// never swallowed into a silent no-op.
type AuthorizationError struct {
	UserID   string
	Resource string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not allowed to access %s", e.UserID, e.Resource)
}

// PersistenceError wraps a repository failure. Fatal to the calling
// operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TransientDeliveryError is a push-send failure for a single token.
// Permanent marks tokens the provider reports as gone for good; those are
// pruned from the registry rather than retried.
type TransientDeliveryError struct {
	Token     string
	Permanent bool
	Err       error
}

func (e *TransientDeliveryError) Error() string {
	return fmt.Sprintf("push delivery to token %s failed (permanent=%t): %v", e.Token, e.Permanent, e.Err)
}

func (e *TransientDeliveryError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
