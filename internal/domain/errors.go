package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDealAlreadyExists = errors.New("deal already exists")
	ErrDealNotFound      = errors.New("deal not found")
	ErrImportRunNotFound = errors.New("import run not found")
	ErrInvalidInput      = errors.New("invalid input")
)

// DuplicateDealError is returned by the store when the unique identifier is already taken.
type DuplicateDealError struct {
	DealUniqueID string
}

func (e *DuplicateDealError) Error() string {
	return fmt.Sprintf("Deal with id '%s' already exists", e.DealUniqueID)
}

func (e *DuplicateDealError) Unwrap() error { return ErrDealAlreadyExists }

// InputError is a structural (whole-file) import failure.
type InputError struct {
	Msg string
	Err error
}

func NewInputError(msg string, err error) *InputError {
	return &InputError{Msg: msg, Err: err}
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InputError) Unwrap() error { return e.Err }
