// Package flow implements the dialogue engine for the spa assistant: the
// per-conversation state machine that turns classified intents into
// multi-step workflows against the spa backend.
//
// Turn processing order is fixed: while a workflow is pending, the incoming
// turn is strictly the answer to that workflow's current step and general
// intent classification is not consulted. Only an idle conversation routes a
// turn through the classification engine.
package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/somOone/spa-assistant/internal/models"
)

// DefaultNavigationDelay paces deferred navigation effects. The delay is UX
// pacing only and carries no correctness or retry semantics.
const DefaultNavigationDelay = 1500 * time.Millisecond

// Navigation targets in the host UI.
const (
	appointmentsPath = "/appointments"
	expensesPath     = "/expenses"
	bookingPath      = "/book"
)

// SpaClient is the remote appointment/expense collaborator.
type SpaClient interface {
	SearchAppointments(ctx context.Context, criteria models.AppointmentCriteria) ([]models.Appointment, error)
	DeleteAppointment(ctx context.Context, id int) error
	CompleteAppointment(ctx context.Context, id int, tip float64) error
	UpdateAppointment(ctx context.Context, id int, update models.AppointmentUpdate) error
	SearchExpenses(ctx context.Context, criteria models.ExpenseCriteria) ([]models.Expense, error)
	UpdateExpenseAmount(ctx context.Context, id int, amount float64) error
	DeleteExpense(ctx context.Context, id int) error
}

// IntentClassifier produces a normalized intent for a user turn.
type IntentClassifier interface {
	Classify(text string) models.IntentResult
}

// Recorder persists transcript messages and classification audit records.
// Recorder failures are logged and never fail a turn.
type Recorder interface {
	AddChatMessage(conversationID string, msg models.ChatMessage) error
	AddClassificationRecord(rec models.ClassificationRecord) error
}

// Notifier sends courtesy messages to clients after workflow execution.
type Notifier interface {
	SendMessage(ctx context.Context, to string, body string) error
}

// Engine drives conversations. All live dialogue state is in memory per
// session; the recorder is an audit surface, not a cache of remote truth.
type Engine struct {
	classifier IntentClassifier
	spa        SpaClient
	recorder   Recorder
	notifier   Notifier
	navDelay   time.Duration

	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder attaches a transcript/classification recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithNotifier attaches a client notification service.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithNavigationDelay overrides the deferred navigation delay.
func WithNavigationDelay(d time.Duration) Option {
	return func(e *Engine) { e.navDelay = d }
}

// NewEngine creates the dialogue engine.
func NewEngine(classifier IntentClassifier, spa SpaClient, opts ...Option) *Engine {
	e := &Engine{
		classifier:    classifier,
		spa:           spa,
		navDelay:      DefaultNavigationDelay,
		conversations: make(map[string]*Conversation),
	}
	for _, opt := range opts {
		opt(e)
	}
	slog.Debug("Engine.NewEngine: dialogue engine created",
		"has_recorder", e.recorder != nil, "has_notifier", e.notifier != nil, "nav_delay", e.navDelay)
	return e
}

// ProcessTurn processes one user submission to completion and returns the
// bot's replies plus deferred effects. Turns on the same conversation are
// serialized; the caller may invoke this from any goroutine.
func (e *Engine) ProcessTurn(ctx context.Context, conversationID, text string) (*TurnResult, error) {
	request := models.TurnRequest{ConversationID: conversationID, Message: text}
	if err := request.Validate(); err != nil {
		slog.Warn("Engine.ProcessTurn: invalid turn request", "error", err, "conversation", conversationID)
		return nil, err
	}

	conv := e.conversation(conversationID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	e.recordMessage(conv.ID, conv.append(models.RoleUser, text))

	var result *TurnResult
	if conv.pending != nil {
		slog.Debug("Engine.ProcessTurn: routing to active workflow", "conversation", conv.ID, "workflow", conv.pending.Kind())
		result = e.continueWorkflow(ctx, conv, text)
	} else {
		result = e.dispatch(ctx, conv, text)
	}

	for _, msg := range result.Messages {
		e.recordMessage(conv.ID, conv.append(models.RoleBot, msg))
	}
	return result, nil
}

// History returns a copy of the in-memory transcript for a conversation.
func (e *Engine) History(conversationID string) []models.ChatMessage {
	e.mu.RLock()
	conv, exists := e.conversations[conversationID]
	e.mu.RUnlock()
	if !exists {
		return nil
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	out := make([]models.ChatMessage, len(conv.messages))
	copy(out, conv.messages)
	return out
}

// conversation returns existing state for the ID or creates it.
func (e *Engine) conversation(id string) *Conversation {
	e.mu.RLock()
	conv, exists := e.conversations[id]
	e.mu.RUnlock()
	if exists {
		return conv
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if conv, exists = e.conversations[id]; exists {
		return conv
	}
	conv = newConversation(id)
	e.conversations[id] = conv
	slog.Debug("Engine.conversation: new conversation created", "conversation", id)
	return conv
}

// dispatch classifies an idle conversation's turn and routes it.
func (e *Engine) dispatch(ctx context.Context, conv *Conversation, text string) *TurnResult {
	intentResult := e.classifier.Classify(text)
	e.recordClassification(conv.ID, text, intentResult)
	slog.Debug("Engine.dispatch: turn classified",
		"conversation", conv.ID, "type", intentResult.Type, "source", intentResult.Source, "confidence", intentResult.Confidence)

	switch intentResult.Type {
	case models.IntentCancelAppointment:
		return e.dispatchAppointmentAction(ctx, conv, intentResult, e.startCancellation, cancelUsageMessage)
	case models.IntentCompleteAppointment:
		return e.dispatchAppointmentAction(ctx, conv, intentResult, e.startCompletion, completeUsageMessage)
	case models.IntentChangeAppointment:
		return e.dispatchAppointmentAction(ctx, conv, intentResult, e.startEdit, editUsageMessage)
	case models.IntentChangeExpense:
		return e.dispatchExpenseEdit(ctx, conv, intentResult)
	case models.IntentDeleteExpense:
		return e.dispatchExpenseDelete(ctx, conv, intentResult)
	case models.IntentBookAppointment:
		result := &TurnResult{}
		result.say("Let's get you booked! I'll open the booking page for you.")
		result.navigate(models.NavigateAfter(e.navDelay, bookingPath))
		return result
	case models.IntentShowAppointments:
		result := &TurnResult{}
		result.say("Here are your appointments.")
		result.navigate(models.NavigateAfter(e.navDelay, appointmentsPath))
		return result
	case models.IntentAddExpense:
		result := &TurnResult{}
		result.say("Let's add that expense. I'll open the expense form for you.")
		result.navigate(models.NavigateAfter(e.navDelay, expensesPath+"/new"))
		return result
	case models.IntentHelpGeneral:
		result := &TurnResult{}
		result.say(helpMessage)
		return result
	case models.IntentHowTo:
		result := &TurnResult{}
		result.say(howToMessage)
		return result
	default:
		result := &TurnResult{}
		result.say(unknownMessage)
		return result
	}
}

// appointmentStarter begins one appointment workflow family from extracted
// search criteria.
type appointmentStarter func(ctx context.Context, conv *Conversation, criteria models.AppointmentCriteria) *TurnResult

// dispatchAppointmentAction extracts appointment criteria from pattern
// captures and starts the workflow, or replies with usage guidance when the
// turn matched fuzzily and carries no captures to act on.
func (e *Engine) dispatchAppointmentAction(ctx context.Context, conv *Conversation, intentResult models.IntentResult, start appointmentStarter, usage string) *TurnResult {
	criteria, ok := appointmentCriteriaFromResult(intentResult)
	if !ok {
		result := &TurnResult{}
		result.say(usage)
		return result
	}
	return start(ctx, conv, criteria)
}

// appointmentCriteriaFromResult maps positional pattern captures
// (client, time, date, optional year) to search criteria.
func appointmentCriteriaFromResult(r models.IntentResult) (models.AppointmentCriteria, bool) {
	if r.Source != models.SourceRegex || len(r.Groups) < 3 {
		return models.AppointmentCriteria{}, false
	}
	criteria := models.AppointmentCriteria{
		Client: r.Groups[0],
		Time:   r.Groups[1],
		Date:   r.Groups[2],
	}
	if len(r.Groups) > 3 {
		criteria.Year = r.Groups[3]
	}
	if criteria.Client == "" || criteria.Time == "" || criteria.Date == "" {
		return models.AppointmentCriteria{}, false
	}
	return criteria, true
}

// recordMessage persists one transcript message, logging failures.
func (e *Engine) recordMessage(conversationID string, msg models.ChatMessage) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.AddChatMessage(conversationID, msg); err != nil {
		slog.Error("Engine.recordMessage: failed to persist chat message", "error", err, "conversation", conversationID)
	}
}

// recordClassification persists one classification audit record.
func (e *Engine) recordClassification(conversationID, text string, r models.IntentResult) {
	if e.recorder == nil {
		return
	}
	record := models.ClassificationRecord{
		ConversationID: conversationID,
		Text:           text,
		Intent:         r.Intent,
		Type:           r.Type,
		Confidence:     r.Confidence,
		Source:         r.Source,
		Matched:        r.Source != models.SourceNone,
		Time:           time.Now().Unix(),
	}
	if err := e.recorder.AddClassificationRecord(record); err != nil {
		slog.Error("Engine.recordClassification: failed to persist record", "error", err, "conversation", conversationID)
	}
}

// continueWorkflow routes an active conversation's turn to the pending
// workflow's current step.
func (e *Engine) continueWorkflow(ctx context.Context, conv *Conversation, text string) *TurnResult {
	switch pending := conv.pending.(type) {
	case *PendingCancellation:
		return e.resumeCancellation(ctx, conv, pending, text)
	case *PendingCompletion:
		return e.resumeCompletion(ctx, conv, pending, text)
	case *PendingEdit:
		return e.resumeEdit(ctx, conv, pending, text)
	case *PendingExpenseEdit:
		return e.resumeExpenseEdit(ctx, conv, pending, text)
	case *PendingExpenseDelete:
		return e.resumeExpenseDelete(ctx, conv, pending, text)
	default:
		// Unreachable unless a new workflow kind is added without a handler.
		slog.Error("Engine.continueWorkflow: unknown pending workflow", "conversation", conv.ID, "kind", conv.pending.Kind())
		conv.pending = nil
		result := &TurnResult{}
		result.say(genericErrorMessage)
		return result
	}
}

// notifyClient sends a courtesy message after a successful mutation, when a
// notifier is configured and the appointment carries a phone number. Failures
// are logged only; notification never fails the turn.
func (e *Engine) notifyClient(ctx context.Context, appointment models.Appointment, body string) {
	if e.notifier == nil || appointment.Phone == "" {
		return
	}
	if err := e.notifier.SendMessage(ctx, appointment.Phone, body); err != nil {
		slog.Warn("Engine.notifyClient: notification failed", "error", err, "client", appointment.Client)
	} else {
		slog.Debug("Engine.notifyClient: notification sent", "client", appointment.Client)
	}
}
