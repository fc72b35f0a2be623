// Package flow defines conversation state for the dialogue engine.
package flow

import (
	"sync"
	"time"

	"github.com/somOone/spa-assistant/internal/models"
)

// WorkflowKind identifies a pending workflow family.
type WorkflowKind string

// Workflow kinds.
const (
	WorkflowCancel        WorkflowKind = "cancel_appointment"
	WorkflowComplete      WorkflowKind = "complete_appointment"
	WorkflowEdit          WorkflowKind = "edit_appointment"
	WorkflowExpenseEdit   WorkflowKind = "edit_expense"
	WorkflowExpenseDelete WorkflowKind = "delete_expense"
)

// Workflow step values. Steps only move forward; an abort resets the whole
// pending record to nil.
const (
	// Cancellation and both expense workflows have a single question.
	StepAwaitConfirm = 1

	// Completion: collect the tip, then confirm.
	StepCompletionTip     = 1
	StepCompletionConfirm = 2

	// Appointment edit: category, then reason, then confirm.
	StepEditCategory = 1
	StepEditReason   = 2
	StepEditConfirm  = 3
)

// Pending is the single-slot sum over the five workflow families. A
// conversation holds at most one non-nil Pending at any time; the slot itself
// enforces the mutual-exclusion invariant.
type Pending interface {
	Kind() WorkflowKind
}

// PendingCancellation tracks an appointment cancellation awaiting yes/no.
type PendingCancellation struct {
	Appointment models.Appointment
	Criteria    models.AppointmentCriteria
	Step        int
}

// Kind implements Pending.
func (p *PendingCancellation) Kind() WorkflowKind { return WorkflowCancel }

// PendingCompletion tracks an appointment completion collecting a tip and a
// confirmation.
type PendingCompletion struct {
	Appointment models.Appointment
	Criteria    models.AppointmentCriteria
	Tip         float64
	Step        int
}

// Kind implements Pending.
func (p *PendingCompletion) Kind() WorkflowKind { return WorkflowComplete }

// PendingEdit tracks an appointment category edit: new category, optional
// change reason, then confirmation.
type PendingEdit struct {
	Appointment models.Appointment
	Criteria    models.AppointmentCriteria
	NewCategory string // database-side category name
	NewPayment  float64
	Reason      string
	Step        int
}

// Kind implements Pending.
func (p *PendingEdit) Kind() WorkflowKind { return WorkflowEdit }

// PendingExpenseEdit tracks a single-field expense amount change awaiting
// yes/no.
type PendingExpenseEdit struct {
	Expense   models.Expense
	NewAmount float64
	Step      int
}

// Kind implements Pending.
func (p *PendingExpenseEdit) Kind() WorkflowKind { return WorkflowExpenseEdit }

// PendingExpenseDelete tracks an expense deletion awaiting yes/no.
type PendingExpenseDelete struct {
	Expense models.Expense
	Step    int
}

// Kind implements Pending.
func (p *PendingExpenseDelete) Kind() WorkflowKind { return WorkflowExpenseDelete }

// Conversation is the per-session mutable state: the append-only transcript
// and the single pending-workflow slot. Turns are serialized by the mutex, so
// two submissions can never race for the slot.
type Conversation struct {
	ID string

	mu        sync.Mutex
	messages  []models.ChatMessage
	nextMsgID int64
	pending   Pending
}

// newConversation creates empty conversation state.
func newConversation(id string) *Conversation {
	return &Conversation{ID: id, nextMsgID: 1}
}

// append records a message on the transcript and returns it.
func (c *Conversation) append(role models.Role, text string) models.ChatMessage {
	msg := models.ChatMessage{ID: c.nextMsgID, Role: role, Text: text, Timestamp: time.Now()}
	c.nextMsgID++
	c.messages = append(c.messages, msg)
	return msg
}

// TurnResult is the outcome of processing one user turn: the bot's replies in
// order plus deferred effects for the host UI to execute.
type TurnResult struct {
	Messages []string
	Effects  []models.Effect
}

// say appends a bot reply to the result.
func (r *TurnResult) say(msg string) {
	r.Messages = append(r.Messages, msg)
}

// navigate appends a deferred navigation effect to the result.
func (r *TurnResult) navigate(effect models.Effect) {
	r.Effects = append(r.Effects, effect)
}
