// Package flow: remote-failure handling at the workflow boundary.
package flow

import (
	"errors"

	"github.com/somOone/spa-assistant/internal/spaapi"
)

// remoteErrorMessage converts a remote-call failure into a chat message.
// Backend validation errors (400) are surfaced verbatim; anything else gets
// the generic message. No error ever reaches the transcript as a stack trace
// or raw payload.
func remoteErrorMessage(err error) string {
	var validationErr *spaapi.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return genericErrorMessage
}
