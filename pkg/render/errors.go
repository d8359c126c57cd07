package render

import (
	"errors"
	"fmt"
)

// ErrUnresolvedPlaceholder is the sentinel wrapped by
// UnresolvedPlaceholderError, so callers can branch with errors.Is.
var ErrUnresolvedPlaceholder = errors.New("render: unresolved placeholder")

// UnresolvedPlaceholderError reports a template token that neither the
// type's annotations nor its provider data could satisfy. The failure is
// local to the render call; the shared registries are unaffected.
type UnresolvedPlaceholderError struct {
	// Token is the placeholder text without braces.
	Token string
	// TypeName identifies the type being rendered.
	TypeName string
}

// Error implements the error interface.
func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("render: placeholder {%s} unresolved for type %q", e.Token, e.TypeName)
}

// Unwrap ties the error to ErrUnresolvedPlaceholder.
func (e *UnresolvedPlaceholderError) Unwrap() error {
	return ErrUnresolvedPlaceholder
}
