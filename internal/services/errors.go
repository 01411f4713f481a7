package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks network or HTTP failures unrelated to authorization.
	ErrTransport = errors.New("transport error")
	// ErrAuthorization marks rejected credentials; the file fetcher uses it to
	// trigger the anonymous retry.
	ErrAuthorization = errors.New("authorization error")
	// ErrNotFound marks a deposit folder absent from every stage root.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousState marks a deposit folder present under more than one
	// stage root. Never auto-resolved.
	ErrAmbiguousState = errors.New("ambiguous stage state")
	// ErrInvalidTransition marks an advance past the terminal stage.
	ErrInvalidTransition = errors.New("invalid stage transition")
	// ErrValidation marks malformed input or remote payloads.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must halt the current workflow invocation
// rather than being isolated to a single item.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAmbiguousState) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
