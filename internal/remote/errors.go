package remote

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRemote marks a definitive rejection by the remote service.
	ErrRemote = errors.New("remote rejection")
	// ErrTransient marks network or server failures worth retrying.
	ErrTransient = errors.New("transient failure")
	// ErrValidation marks requests the client refuses to send.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown batch or operation name.
	ErrNotFound = errors.New("not found")
	// ErrMalformedPayload marks a response the client could not interpret.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTransient reports whether the error should be retried rather than
// recorded as a terminal verdict.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "remote failure"
	}
	return strings.Join(parts, ": ")
}
