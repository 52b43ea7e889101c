package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the authenticated user may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrLocked indicates that the target voucher, entry, or period is locked
// against modification.
var ErrLocked = errors.New("entity is locked")

// ErrConflict indicates that a concurrent update won the optimistic version
// check and the caller should reload and retry.
var ErrConflict = errors.New("version conflict")
