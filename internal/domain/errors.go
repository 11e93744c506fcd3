package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError signals an optimistic-lock version mismatch on the seat
// inventory. It is the retry signal of the ledger, never surfaced to callers
// directly; the coordinator either retries or converts it to ContentionError.
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// SoldOutError is terminal: capacity cannot appear mid-schedule, so the
// coordinator never retries it.
type SoldOutError struct {
	ScheduleID int64
	Requested  int
	Available  int
}

func (e SoldOutError) Error() string {
	return fmt.Sprintf("schedule %d sold out: requested %d, available %d", e.ScheduleID, e.Requested, e.Available)
}

// ContentionError reports an exhausted retry budget under concurrent load.
// The booking was not taken; the caller may resubmit.
type ContentionError struct {
	Attempts int
}

func (e ContentionError) Error() string {
	return fmt.Sprintf("reservation abandoned after %d conflicting attempts, please retry", e.Attempts)
}

// TimeoutError reports that the caller's deadline expired inside the retry
// loop. Distinct from ContentionError: the budget was not used up, the caller
// simply ran out of time.
type TimeoutError struct {
	Err error
}

func (e TimeoutError) Error() string { return "booking timed out" }

func (e TimeoutError) Unwrap() error { return e.Err }

// PersistenceError reports a storage failure after seats were already
// reserved. By the time it surfaces the reservation has been compensated.
type PersistenceError struct {
	Msg string
	Err error
}

func (e PersistenceError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "persistence failure"
}

func (e PersistenceError) Unwrap() error { return e.Err }

// ReferenceError means PNR generation kept colliding. Treated as internal:
// repeated collisions at 51 bits of entropy point at a broken uniqueness
// index, not bad luck.
type ReferenceError struct {
	Attempts int
	Err      error
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("could not issue unique booking reference after %d attempts", e.Attempts)
}

func (e ReferenceError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsSoldOut(err error) bool {
	var target SoldOutError
	return errors.As(err, &target)
}

func IsContention(err error) bool {
	var target ContentionError
	return errors.As(err, &target)
}

func IsTimeout(err error) bool {
	var target TimeoutError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target PersistenceError
	return errors.As(err, &target)
}

func IsReference(err error) bool {
	var target ReferenceError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
