package soft

import "errors"

// Package errors for the soft host.
var (
	// ErrInvalidSize is returned for negative surface dimensions.
	ErrInvalidSize = errors.New("soft: invalid surface size")

	// ErrContextLost is returned by every call on a lost context.
	ErrContextLost = errors.New("soft: context lost")

	// ErrInvalidEnum is returned for an enumerant the call does not accept.
	ErrInvalidEnum = errors.New("soft: invalid enum")

	// ErrInvalidHandle is returned for a handle of the wrong kind or from
	// another context.
	ErrInvalidHandle = errors.New("soft: invalid handle")

	// ErrInvalidOperation is returned when GL state forbids the call.
	ErrInvalidOperation = errors.New("soft: invalid operation")

	// ErrCompile is returned by CompileShader for a rejected source.
	ErrCompile = errors.New("soft: shader compile failed")

	// ErrLink is returned by LinkProgram when the stages do not match.
	ErrLink = errors.New("soft: program link failed")
)
