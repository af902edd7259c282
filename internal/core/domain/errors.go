package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTokenMalformed = errors.New("session token malformed")
	ErrTokenTampered  = errors.New("session token tampered")
	ErrTokenExpired   = errors.New("session token expired")

	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")

	ErrInvalidPayment         = errors.New("invalid payment")
	ErrContractNotSigned      = errors.New("contract is not signed")
	ErrInvalidContractAmounts = errors.New("invalid contract amounts")
	ErrInvalidDateRange       = errors.New("event end must be after its start")
	ErrInvalidAttendeeCount   = errors.New("attendee count must not be negative")
	ErrInvalidAssignee        = errors.New("assignee must be a support actor")
	ErrInvalidOwner           = errors.New("owner must be a sales actor")
	ErrValidation             = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("too many failed logins, try again later")
	ErrActorExists        = errors.New("actor already exists")
	ErrInvalidRole        = errors.New("invalid role")
)

// TokenError reports why a session token was refused. Kind is one of
// ErrTokenMalformed, ErrTokenTampered or ErrTokenExpired.
type TokenError struct {
	Kind  error
	Cause error
}

func (e *TokenError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
}

func (e *TokenError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// PermissionDeniedError carries what was refused and which scope the role
// would have needed. RequiredScope is "none" when the role may never perform
// the action.
type PermissionDeniedError struct {
	Action        string
	ResourceKind  ResourceKind
	RequiredScope string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s on %s requires %s scope", e.Action, e.ResourceKind, e.RequiredScope)
}

func (e *PermissionDeniedError) Is(target error) bool { return target == ErrPermissionDenied }

// NotFoundError reports a missing record.
type NotFoundError struct {
	Kind ResourceKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PaymentRejection is the stable reason a payment was refused.
type PaymentRejection string

const (
	PaymentNegative         PaymentRejection = "negative_amount"
	PaymentExceedsRemaining PaymentRejection = "exceeds_remaining"
)

// InvalidPaymentError reports a payment outside [0, remaining].
type InvalidPaymentError struct {
	Reason    PaymentRejection
	Amount    Money
	Remaining Money
}

func (e *InvalidPaymentError) Error() string {
	switch e.Reason {
	case PaymentExceedsRemaining:
		return fmt.Sprintf("invalid payment: %s exceeds remaining %s", e.Amount, e.Remaining)
	default:
		return fmt.Sprintf("invalid payment: %s is negative", e.Amount)
	}
}

func (e *InvalidPaymentError) Is(target error) bool { return target == ErrInvalidPayment }

// ValidationError lists every field that failed input validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Code returns the stable reason code of err, or "internal" for errors
// outside the taxonomy.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTokenMalformed):
		return "token_malformed"
	case errors.Is(err, ErrTokenTampered):
		return "token_tampered"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidPayment):
		return "invalid_payment"
	case errors.Is(err, ErrContractNotSigned):
		return "contract_not_signed"
	case errors.Is(err, ErrInvalidContractAmounts):
		return "invalid_contract_amounts"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrInvalidAttendeeCount):
		return "invalid_attendee_count"
	case errors.Is(err, ErrInvalidAssignee):
		return "invalid_assignee"
	case errors.Is(err, ErrInvalidOwner):
		return "invalid_owner"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ErrActorExists):
		return "actor_exists"
	case errors.Is(err, ErrInvalidRole):
		return "invalid_role"
	}
	return "internal"
}
