// Package models defines intent classification types shared across modules.
package models

// IntentType is the category tag assigned to a classified user message.
type IntentType string

// Known intent types, in rough order of how often users hit them.
const (
	IntentBookAppointment     IntentType = "book_appointment"
	IntentCancelAppointment   IntentType = "cancel_appointment"
	IntentCompleteAppointment IntentType = "complete_appointment"
	IntentChangeAppointment   IntentType = "change_appointment"
	IntentShowAppointments    IntentType = "show_appointments"
	IntentAddExpense          IntentType = "add_expense"
	IntentChangeExpense       IntentType = "change_expense"
	IntentDeleteExpense       IntentType = "delete_expense"
	IntentHelpGeneral         IntentType = "help_general"
	IntentHowTo               IntentType = "how_to_question"
	IntentUnknown             IntentType = "unknown"
)

// IntentSource identifies which classifier tier produced a result.
type IntentSource string

const (
	// SourceRegex means a pattern bank entry matched.
	SourceRegex IntentSource = "regex"
	// SourceSimilarity means the example-similarity classifier matched.
	SourceSimilarity IntentSource = "similarity"
	// SourceHeuristic means the keyword scoring model qualified a template.
	SourceHeuristic IntentSource = "heuristic"
	// SourceGenAI means the optional LLM fallback produced the intent.
	SourceGenAI IntentSource = "genai"
	// SourceNone means no tier matched; the result is the unknown sentinel.
	SourceNone IntentSource = "none"
)

// IntentResult is the normalized output of the classification facade. It is
// ephemeral: produced per user turn and consumed immediately by the dialogue
// engine, never persisted as-is (the store keeps its own audit record).
type IntentResult struct {
	Intent     string       `json:"intent"`
	Type       IntentType   `json:"type"`
	Confidence float64      `json:"confidence"`
	Groups     []string     `json:"groups,omitempty"` // positional captures from the pattern bank
	Source     IntentSource `json:"source"`
}

// UnknownIntent returns the explicit no-match sentinel.
func UnknownIntent() IntentResult {
	return IntentResult{
		Intent:     string(IntentUnknown),
		Type:       IntentUnknown,
		Confidence: 0,
		Source:     SourceNone,
	}
}

// ClassificationRecord is the audit row persisted for every classification
// outcome; the training dashboard reads aggregates of these.
type ClassificationRecord struct {
	ConversationID string       `json:"conversation_id"`
	Text           string       `json:"text"`
	Intent         string       `json:"intent"`
	Type           IntentType   `json:"type"`
	Confidence     float64      `json:"confidence"`
	Source         IntentSource `json:"source"`
	Matched        bool         `json:"matched"`
	Time           int64        `json:"time"`
}

// ClassificationStats aggregates classification records per source tier.
type ClassificationStats struct {
	Source        IntentSource `json:"source"`
	Count         int          `json:"count"`
	AvgConfidence float64      `json:"avg_confidence"`
}
