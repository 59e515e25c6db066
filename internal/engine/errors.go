package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates invalid input to Reset. The engine keeps
	// its previous state.
	ErrConfiguration = errors.New("engine: invalid configuration")

	// ErrNoState indicates a tick before the first successful Reset.
	ErrNoState = errors.New("engine: no simulation state (call Reset first)")

	// ErrStopped indicates a tick while the clock is stopped.
	ErrStopped = errors.New("engine: simulation stopped")

	// ErrReentrantTick indicates Tick was called while a tick was running.
	ErrReentrantTick = errors.New("engine: tick called re-entrantly")

	// ErrInvalidStep indicates a non-positive or non-finite dt.
	ErrInvalidStep = errors.New("engine: invalid time step")
)

// ConfigError names the rejected input of a Reset.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrConfiguration, e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(field, reason string, err error) error {
	return &ConfigError{Field: field, Reason: reason, Err: err}
}
