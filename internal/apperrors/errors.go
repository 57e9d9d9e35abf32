package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrProvider indicates that a single upstream rate provider call failed.
// The orchestrator recovers from this via failover; callers only ever see it
// wrapped inside ErrProviderUnavailable.
var ErrProvider = errors.New("rate provider error")

// ErrProviderUnavailable indicates that every configured provider failed and
// no cached snapshot exists to fall back on. Retryable by the caller.
var ErrProviderUnavailable = errors.New("no rate provider available")
