package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRequest signals malformed or policy-violating client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrMetadataUnavailable signals that the categories or fields lookup
	// returned nothing usable.
	ErrMetadataUnavailable = errors.New("metadata unavailable")
)

// InvalidRequest wraps ErrInvalidRequest with the violated rule.
func InvalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// RuleMessage returns the client-facing rule text of an ErrInvalidRequest chain,
// dropping any operation prefixes added while the error was wrapped.
func RuleMessage(err error) string {
	msg := err.Error()
	if _, rule, ok := strings.Cut(msg, ErrInvalidRequest.Error()+": "); ok {
		return rule
	}
	return msg
}
