package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPeriodClosed indicates that no accounting period is open for the
// transaction date. Posting is not retried; an operator must open the period.
var ErrPeriodClosed = errors.New("no open accounting period for transaction date")

// ErrInvalidAccountCode indicates that an amount was routed to an account code
// that is not present in the account code registry.
var ErrInvalidAccountCode = errors.New("account code is not registered")

// ErrConfiguration indicates a misconfigured interface system, e.g. percentage
// deduction enabled without a percentage or a deduction account code.
var ErrConfiguration = errors.New("system configuration error")

// ErrAllocationOverflow indicates an attempt to allocate more of a gateway
// transaction than its settled amount.
var ErrAllocationOverflow = errors.New("allocation exceeds transaction amount")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
