package apperr

import "errors"

// Network is returned when no response was received from the backend.
var Network = errors.New("network failure")

// Server indicates a non-2xx response carrying an error body.
var Server = errors.New("server error")

// AuthExpired indicates a 401; the session has been invalidated process-wide.
var AuthExpired = errors.New("session expired")

// Validation is returned when the input fails local validation before any call.
var Validation = errors.New("invalid input")

// InvalidTransition is returned for a status change outside the workflow whitelist.
var InvalidTransition = errors.New("invalid status transition")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")
