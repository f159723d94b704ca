package stringql

import "errors"

// Sentinel errors returned by template composition, validation and execution.
//
// Use errors.Is to test for them. Errors raised by the database itself are
// returned as-is (see DescribeFailure for turning those into a readable
// report) and never wrap any of these.
var (
	// ErrWrongModeArgument is returned when the mode is not one of
	// Read, Write or WriteReturning.
	ErrWrongModeArgument = errors.New("wrong mode argument")
	// ErrWrongDataArgumentType is returned when the payload cannot be used
	// with the requested mode or statement (e.g. a scalar payload, a mapping
	// payload on a read, or a mapping payload for a statement that has no
	// {fields} and {placeholders} tokens to expand into).
	ErrWrongDataArgumentType = errors.New("wrong data argument type")
	// ErrWrongNumberOfPlaceholders is returned when the markers in the final
	// statement do not line up with the payload members.
	ErrWrongNumberOfPlaceholders = errors.New("wrong number of placeholders")
	// ErrQueryMissingElements is returned by Parameterize when a mapping
	// payload is supplied but the template lacks the {fields} or
	// {placeholders} tokens.
	ErrQueryMissingElements = errors.New("query missing elements")
	// ErrTooManyKwargs is returned when a keyword argument collides with a
	// name reserved for mapping expansion ("fields" or "placeholders").
	ErrTooManyKwargs = errors.New("too many kwargs")
)
