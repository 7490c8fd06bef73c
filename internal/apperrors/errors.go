package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnsupportedFormat indicates that an uploaded file is not a spreadsheet
// container this service can read.
var ErrUnsupportedFormat = errors.New("unsupported statement format")

// ErrParse indicates that a statement file could be opened but its fixed cell
// layout is missing or malformed.
var ErrParse = errors.New("malformed statement")

// ErrInvalidDateFormat indicates a date field that does not match the expected pattern.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ErrInvalidNumberFormat indicates an amount or balance field that is not numeric.
var ErrInvalidNumberFormat = errors.New("invalid number format")

// ErrTransactionService wraps unexpected persistence failures crossing the
// transaction service boundary. The underlying cause is preserved for logging.
var ErrTransactionService = errors.New("transaction service failure")
