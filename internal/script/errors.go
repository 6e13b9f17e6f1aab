package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed Lua state.
	ErrStateClosed = errors.New("script: lua state is closed")

	// ErrNilBus is returned when constructing a host without a bus.
	ErrNilBus = errors.New("script: event bus is required")

	// ErrFunctionNotFound is returned when calling a missing Lua global.
	ErrFunctionNotFound = errors.New("script: lua function not found")
)
