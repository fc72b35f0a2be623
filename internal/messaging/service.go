// Package messaging provides SMS delivery for client notifications in the
// spa assistant. The default deployment runs without a provider; the Twilio
// service is enabled when credentials are configured.
package messaging

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
)

// ErrServiceStopped is returned when a send is attempted after Stop.
var ErrServiceStopped = errors.New("messaging service is stopped")

// phoneNumberRegex matches everything that is not a digit.
var phoneNumberRegex = regexp.MustCompile(`[^0-9]`)

// Service defines a pluggable message delivery abstraction.
type Service interface {
	// ValidateAndCanonicalizeRecipient validates and canonicalizes a
	// recipient identifier. Returns the canonicalized recipient and an
	// error if validation fails.
	ValidateAndCanonicalizeRecipient(recipient string) (string, error)

	// SendMessage sends a message to a recipient.
	SendMessage(ctx context.Context, to string, body string) error

	// Start begins any background processing.
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error
}

// NoopService discards all messages. It stands in when no SMS provider is
// configured so callers never have to nil-check the notification path.
type NoopService struct{}

// NewNoopService creates a messaging service that drops everything.
func NewNoopService() *NoopService {
	return &NoopService{}
}

// ValidateAndCanonicalizeRecipient applies the same phone rules as the real
// provider so misconfigured numbers surface even in no-op deployments.
func (s *NoopService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	return canonicalizePhone(recipient)
}

// SendMessage logs and discards the message.
func (s *NoopService) SendMessage(ctx context.Context, to string, body string) error {
	slog.Debug("NoopService.SendMessage: dropping message (no provider configured)", "to", to)
	return nil
}

// Start is a no-op.
func (s *NoopService) Start(ctx context.Context) error { return nil }

// Stop is a no-op.
func (s *NoopService) Stop() error { return nil }
