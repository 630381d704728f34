package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Parse errors
	ErrMsgChecksumMissing   = "checksum line not found"
	ErrMsgChecksumMismatch  = "checksum mismatch"
	ErrMsgMalformedItemLine = "malformed item line"
	ErrMsgEmptyInput        = "empty input"

	// Constraint errors
	ErrMsgUnknownClass = "unknown class"
	ErrMsgUnknownSpec  = "unknown spec"

	// Simulation job errors
	ErrMsgJobNotFound    = "job not found"
	ErrMsgJobNotFinished = "job not finished"
	ErrMsgQueueFull      = "simulation queue is full"
	ErrMsgNoCombinations = "no combinations to simulate"

	// Account/guild errors
	ErrMsgUserNotFound      = "user not found"
	ErrMsgCharacterNotFound = "character not found"
	ErrMsgGuildNotFound     = "guild not found"
	ErrMsgRosterNotFound    = "roster not found"
	ErrMsgRosterFull        = "roster is full"
	ErrMsgNotGuildMember    = "not a guild member"
	ErrMsgNotAuthorized     = "not authorized"
	ErrMsgUnauthenticated   = "not authenticated"

	// Upstream API errors
	ErrMsgUpstreamError = "upstream api error"
	ErrMsgRateLimited   = "rate limited"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Parse errors
	ErrChecksumMissing   = errors.New(ErrMsgChecksumMissing)
	ErrChecksumMismatch  = errors.New(ErrMsgChecksumMismatch)
	ErrMalformedItemLine = errors.New(ErrMsgMalformedItemLine)
	ErrEmptyInput        = errors.New(ErrMsgEmptyInput)

	// Constraint errors
	ErrUnknownClass = errors.New(ErrMsgUnknownClass)
	ErrUnknownSpec  = errors.New(ErrMsgUnknownSpec)

	// Simulation job errors
	ErrJobNotFound    = errors.New(ErrMsgJobNotFound)
	ErrJobNotFinished = errors.New(ErrMsgJobNotFinished)
	ErrQueueFull      = errors.New(ErrMsgQueueFull)
	ErrNoCombinations = errors.New(ErrMsgNoCombinations)

	// Account/guild errors
	ErrUserNotFound      = errors.New(ErrMsgUserNotFound)
	ErrCharacterNotFound = errors.New(ErrMsgCharacterNotFound)
	ErrGuildNotFound     = errors.New(ErrMsgGuildNotFound)
	ErrRosterNotFound    = errors.New(ErrMsgRosterNotFound)
	ErrRosterFull        = errors.New(ErrMsgRosterFull)
	ErrNotGuildMember    = errors.New(ErrMsgNotGuildMember)
	ErrNotAuthorized     = errors.New(ErrMsgNotAuthorized)
	ErrUnauthenticated   = errors.New(ErrMsgUnauthenticated)

	// Upstream API errors
	ErrUpstreamError = errors.New(ErrMsgUpstreamError)
	ErrRateLimited   = errors.New(ErrMsgRateLimited)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Database/System errors
	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)
