// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidHostAddress is the sentinel error wrapped by InvalidHostAddressError.
	ErrInvalidHostAddress = errors.New("invalid host address")
	// ErrInvalidTokenValue is the sentinel error wrapped by InvalidTokenValueError.
	ErrInvalidTokenValue = errors.New("invalid token value")
	// ErrInvalidConsoleConfig is the sentinel error wrapped by InvalidConsoleConfigError.
	ErrInvalidConsoleConfig = errors.New("invalid console server config")
)

type (
	// HostAddress represents a network host address (IP or hostname) for server binding.
	// A valid address must be non-empty and not whitespace-only.
	HostAddress string

	// TokenValue represents a console session authentication token.
	// A valid token must be non-empty and not whitespace-only.
	TokenValue string

	// InvalidHostAddressError is returned when a HostAddress value is
	// empty or whitespace-only.
	InvalidHostAddressError struct {
		Value HostAddress
	}

	// InvalidTokenValueError is returned when a TokenValue value is
	// empty or whitespace-only.
	InvalidTokenValueError struct {
		Value TokenValue
	}

	// InvalidConsoleConfigError is returned when a console server Config has
	// invalid fields. It wraps ErrInvalidConsoleConfig for errors.Is()
	// compatibility and collects field-level validation errors.
	InvalidConsoleConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the HostAddress.
func (h HostAddress) String() string { return string(h) }

// Validate returns nil if the HostAddress is valid (non-empty and not
// whitespace-only), or an error wrapping ErrInvalidHostAddress if it is not.
func (h HostAddress) Validate() error {
	if strings.TrimSpace(string(h)) == "" {
		return &InvalidHostAddressError{Value: h}
	}
	return nil
}

// String returns the string representation of the TokenValue.
func (t TokenValue) String() string { return string(t) }

// Validate returns nil if the TokenValue is valid (non-empty and not
// whitespace-only), or an error wrapping ErrInvalidTokenValue if it is not.
func (t TokenValue) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return &InvalidTokenValueError{Value: t}
	}
	return nil
}

// Validate checks the configuration, collecting every invalid field.
func (c Config) Validate() error {
	var fieldErrors []error
	if err := HostAddress(c.Host).Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}
	if err := c.Port.Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}
	if c.TokenTTL < 0 {
		fieldErrors = append(fieldErrors, fmt.Errorf("token TTL must not be negative, got %s", c.TokenTTL))
	}
	if len(fieldErrors) > 0 {
		return &InvalidConsoleConfigError{FieldErrors: fieldErrors}
	}
	return nil
}

// Error implements the error interface for InvalidHostAddressError.
func (e *InvalidHostAddressError) Error() string {
	return fmt.Sprintf("invalid host address %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidHostAddress for errors.Is() compatibility.
func (e *InvalidHostAddressError) Unwrap() error { return ErrInvalidHostAddress }

// Error implements the error interface for InvalidTokenValueError.
func (e *InvalidTokenValueError) Error() string {
	return fmt.Sprintf("invalid token value %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidTokenValue for errors.Is() compatibility.
func (e *InvalidTokenValueError) Unwrap() error { return ErrInvalidTokenValue }

// Error implements the error interface for InvalidConsoleConfigError.
func (e *InvalidConsoleConfigError) Error() string {
	return fmt.Sprintf("invalid console server config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConsoleConfig for errors.Is() compatibility.
func (e *InvalidConsoleConfigError) Unwrap() error { return ErrInvalidConsoleConfig }
