package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInsufficientFunds indicates that an account balance does not cover the requested debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrProductUnavailable indicates that a product does not exist or has too little stock.
var ErrProductUnavailable = errors.New("product unavailable")

// ErrShiftState indicates a shift transition that is not allowed from the current state.
var ErrShiftState = errors.New("invalid shift state")

// ErrVersionConflict indicates that a document changed between read and write.
var ErrVersionConflict = errors.New("version conflict")

// ErrBusy is returned when conflicting writers kept winning until the retry budget ran out.
// It also matches ErrVersionConflict.
var ErrBusy = &busyError{}

// ErrBackend indicates a storage failure (network, timeout, malformed document)
// that is not a version conflict.
var ErrBackend = errors.New("storage backend error")

// ErrInconsistentState indicates that a multi-document operation failed part way
// and could not be undone.
var ErrInconsistentState = errors.New("inconsistent state")

type busyError struct{}

func (*busyError) Error() string { return "resource busy, retry later" }

func (*busyError) Unwrap() error { return ErrVersionConflict }
