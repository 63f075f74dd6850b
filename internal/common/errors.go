// Package common defines sentinel errors shared by the repositories, the
// services and the recipe staging engine. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrValidation is returned for blank descriptions, non-numeric nutrient
	// fields, unparsable dates and recipes whose total weight is not positive.
	// Nothing is written when it is returned.
	ErrValidation = errors.New("validation error")

	// ErrPersistence wraps a failed transaction. The transaction has been
	// rolled back.
	ErrPersistence = errors.New("persistence error")

	// ErrLinkIntegrity is returned when draft recipe lines could not be linked
	// to a freshly inserted parent food.
	ErrLinkIntegrity = errors.New("recipe lines could not be linked to parent food")

	// ErrDivisionByZero is returned when re-scaling a record whose stored
	// amount is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrSessionClosed is returned by a staging session that was committed,
	// aborted or superseded by a newer session.
	ErrSessionClosed = errors.New("staging session is closed")
)

var domainErrors = []error{ErrorNotFound, ErrValidation, ErrLinkIntegrity, ErrDivisionByZero, ErrSessionClosed, ErrPersistence}

// WrapPersistence tags err as ErrPersistence with the failed operation name.
// Errors already carrying a domain sentinel are returned unchanged.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
