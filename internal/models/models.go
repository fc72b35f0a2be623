// Package models defines the core data structures for the spa assistant.
//
// It includes the chat transcript types, intent classification results, wire
// types for the spa backend's appointment and expense API, and the standard
// API response envelope shared across modules.
package models

import (
	"errors"
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks a message typed by the user.
	RoleUser Role = "user"
	// RoleBot marks a message produced by the assistant.
	RoleBot Role = "bot"
)

// Validation constants for input validation
const (
	// MaxChatMessageLength defines the maximum allowed length for a chat message
	MaxChatMessageLength = 2048
	// MaxConversationIDLength defines the maximum allowed length for a conversation identifier
	MaxConversationIDLength = 128
)

// Error variables for better error handling and testability
var (
	ErrEmptyConversationID   = errors.New("conversation id cannot be empty")
	ErrConversationIDTooLong = errors.New("conversation id exceeds maximum length")
	ErrEmptyMessage          = errors.New("message cannot be empty")
	ErrMessageTooLong        = errors.New("message exceeds maximum length")
	ErrWorkflowActive        = errors.New("another workflow is already pending")
)

// ChatMessage is a single turn in a conversation transcript. Transcripts are
// append-only; messages are never mutated or deleted once recorded.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnRequest is the inbound payload for a chat turn.
type TurnRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// Validate checks a turn request for basic well-formedness.
func (r TurnRequest) Validate() error {
	if r.ConversationID == "" {
		return ErrEmptyConversationID
	}
	if len(r.ConversationID) > MaxConversationIDLength {
		return ErrConversationIDTooLong
	}
	if r.Message == "" {
		return ErrEmptyMessage
	}
	if len(r.Message) > MaxChatMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// TurnResponse is the outbound payload for a chat turn: the bot's replies in
// order plus any deferred effects the UI should execute.
type TurnResponse struct {
	Messages []string `json:"messages"`
	Effects  []Effect `json:"effects,omitempty"`
}

// API Response types for consistent JSON responses

// APIStatus represents the status field of an API response.
type APIStatus string

const (
	// APIStatusOK indicates a successful request.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates a failed request.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// APIResponseBuilder provides a fluent interface for building API responses.
type APIResponseBuilder struct {
	response APIResponse
}

// NewAPIResponseBuilder creates a new APIResponseBuilder instance.
func NewAPIResponseBuilder() *APIResponseBuilder {
	return &APIResponseBuilder{
		response: APIResponse{},
	}
}

// WithStatus sets the status of the API response.
func (b *APIResponseBuilder) WithStatus(status APIStatus) *APIResponseBuilder {
	b.response.Status = string(status)
	return b
}

// WithMessage sets the message of the API response.
func (b *APIResponseBuilder) WithMessage(message string) *APIResponseBuilder {
	b.response.Message = message
	return b
}

// WithResult sets the result data of the API response.
func (b *APIResponseBuilder) WithResult(result interface{}) *APIResponseBuilder {
	b.response.Result = result
	return b
}

// Build constructs and returns the final APIResponse.
func (b *APIResponseBuilder) Build() APIResponse {
	return b.response
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusOK).
		WithResult(result).
		Build()
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusOK).
		WithMessage(message).
		WithResult(result).
		Build()
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusError).
		WithMessage(message).
		Build()
}
