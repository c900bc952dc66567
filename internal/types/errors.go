package types

import "errors"

var (
	// ErrInputNotFound reports a missing primary CSS or SCSS input.
	ErrInputNotFound = errors.New("input not found")
	// ErrBackendUnavailable reports a compiler or purge backend that cannot be used.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInvalidCSS reports a stylesheet the purge backend cannot parse.
	ErrInvalidCSS = errors.New("invalid css")
	// ErrCompile reports an SCSS compilation failure.
	ErrCompile = errors.New("scss compilation failed")
	// ErrWrite reports an output directory or file that could not be written.
	ErrWrite = errors.New("write failed")
)
