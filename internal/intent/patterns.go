// Package intent: pattern bank tier.
package intent

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/somOone/spa-assistant/internal/models"
)

// FieldName labels a capture group with its semantic meaning. Captures map
// positionally: entry.fields[i] names submatch i+1.
type FieldName string

// Capture field names used by the workflow dispatchers.
const (
	FieldClient      FieldName = "client"
	FieldTime        FieldName = "time"
	FieldDate        FieldName = "date"
	FieldYear        FieldName = "year"
	FieldDescription FieldName = "description"
	FieldValue       FieldName = "value"
)

// patternEntry is one declarative row of the bank: a compiled regex plus its
// declared intent, confidence and capture schema.
type patternEntry struct {
	name       string
	intent     models.IntentType
	confidence float64
	fields     []FieldName
	re         *regexp.Regexp
}

// Shared pattern fragments. Client names are greedy over letters, digits,
// spaces, hyphens and apostrophes; the surrounding literal anchors (" at ",
// " on ") bound the capture. Year is always optional and defaults to unset.
const (
	clientFrag = `([a-z0-9' -]+?)`
	timeFrag   = `(\d{1,2}(?::\d{2})?\s*(?:am|pm))`
	dateFrag   = `((?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?)`
	yearFrag   = `(?:,?\s+(?:in\s+)?(\d{4}))?`
	descFrag   = `([a-z0-9' -]+?)`
	whenFrag   = `(?:\s+(?:on|from)\s+` + dateFrag + yearFrag + `)?`
)

// apptFields is the capture schema shared by the appointment action patterns.
var apptFields = []FieldName{FieldClient, FieldTime, FieldDate, FieldYear}

// PatternBank is the deterministic first tier: an ordered collection of tagged
// regular expressions, compiled once. First matching entry in declared order
// wins, so specific patterns must precede general ones.
type PatternBank struct {
	entries []patternEntry
}

// NewPatternBank compiles the full bank in its declared order: appointment
// cancel, complete and edit, then booking, query, help, how-to, and finally
// the expense edit, add and delete patterns.
func NewPatternBank() *PatternBank {
	entries := []patternEntry{
		// Appointment cancellation.
		{
			name:       "cancel_appointment_full",
			intent:     models.IntentCancelAppointment,
			confidence: 0.95,
			fields:     apptFields,
			re:         regexp.MustCompile(`^cancel\s+(?:the\s+)?appointment\s+for\s+` + clientFrag + `\s+at\s+` + timeFrag + `\s+on\s+` + dateFrag + yearFrag + `$`),
		},
		{
			name:       "cancel_appointment_possessive",
			intent:     models.IntentCancelAppointment,
			confidence: 0.9,
			fields:     apptFields,
			re:         regexp.MustCompile(`^cancel\s+` + clientFrag + `'s\s+appointment\s+at\s+` + timeFrag + `\s+on\s+` + dateFrag + yearFrag + `$`),
		},
		// Appointment completion.
		{
			name:       "complete_appointment_full",
			intent:     models.IntentCompleteAppointment,
			confidence: 0.95,
			fields:     apptFields,
			re:         regexp.MustCompile(`^(?:complete|finish|close\s+out)\s+(?:the\s+)?appointment\s+for\s+` + clientFrag + `\s+at\s+` + timeFrag + `\s+on\s+` + dateFrag + yearFrag + `$`),
		},
		{
			name:       "complete_appointment_possessive",
			intent:     models.IntentCompleteAppointment,
			confidence: 0.9,
			fields:     apptFields,
			re:         regexp.MustCompile(`^(?:complete|finish)\s+` + clientFrag + `'s\s+appointment\s+at\s+` + timeFrag + `\s+on\s+` + dateFrag + yearFrag + `$`),
		},
		// Appointment edit.
		{
			name:       "change_appointment_full",
			intent:     models.IntentChangeAppointment,
			confidence: 0.95,
			fields:     apptFields,
			re:         regexp.MustCompile(`^(?:change|edit|modify|update)\s+(?:the\s+)?appointment\s+for\s+` + clientFrag + `\s+at\s+` + timeFrag + `\s+on\s+` + dateFrag + yearFrag + `$`),
		},
		{
			name:       "change_appointment_possessive",
			intent:     models.IntentChangeAppointment,
			confidence: 0.9,
			fields:     apptFields,
			re:         regexp.MustCompile(`^(?:change|edit|modify|update)\s+` + clientFrag + `'s\s+appointment\s+at\s+` + timeFrag + `\s+on\s+` + dateFrag + yearFrag + `$`),
		},
		// Booking.
		{
			name:       "book_appointment",
			intent:     models.IntentBookAppointment,
			confidence: 0.9,
			re:         regexp.MustCompile(`^(?:book|schedule|make|set\s+up)\s+(?:an?\s+)?(?:new\s+)?appointment\b`),
		},
		{
			name:       "book_me",
			intent:     models.IntentBookAppointment,
			confidence: 0.85,
			re:         regexp.MustCompile(`^book\s+me\s+(?:in|an?\s+appointment)\b`),
		},
		// Queries.
		{
			name:       "show_appointments",
			intent:     models.IntentShowAppointments,
			confidence: 0.9,
			re:         regexp.MustCompile(`^(?:show|list|view|display)\s+(?:me\s+)?(?:my\s+|all\s+|the\s+)?appointments?\b`),
		},
		{
			name:       "what_appointments",
			intent:     models.IntentShowAppointments,
			confidence: 0.85,
			re:         regexp.MustCompile(`^what\s+appointments?\s+(?:do\s+i\s+have|are\s+there)\b`),
		},
		// Help.
		{
			name:       "help_bare",
			intent:     models.IntentHelpGeneral,
			confidence: 0.9,
			re:         regexp.MustCompile(`^(?:help|help\s+me|i\s+need\s+help)$`),
		},
		{
			name:       "help_capabilities",
			intent:     models.IntentHelpGeneral,
			confidence: 0.85,
			re:         regexp.MustCompile(`^what\s+can\s+you\s+do\b`),
		},
		// How-to questions.
		{
			name:       "how_to",
			intent:     models.IntentHowTo,
			confidence: 0.85,
			re:         regexp.MustCompile(`^how\s+(?:do|can|would)\s+i\b`),
		},
		// Expense edit. The new value is free text: dollar amounts are edited
		// in chat, anything else is redirected to the inline editor.
		{
			name:       "change_expense_full",
			intent:     models.IntentChangeExpense,
			confidence: 0.9,
			fields:     []FieldName{FieldDescription, FieldValue, FieldDate, FieldYear},
			re:         regexp.MustCompile(`^(?:change|edit|update|modify)\s+(?:the\s+)?expense\s+` + descFrag + `\s+to\s+(\S.*?)` + whenFrag + `$`),
		},
		{
			name:       "change_expense_inverted",
			intent:     models.IntentChangeExpense,
			confidence: 0.85,
			fields:     []FieldName{FieldDescription, FieldValue, FieldDate, FieldYear},
			re:         regexp.MustCompile(`^(?:change|edit|update|modify)\s+(?:the\s+)?` + descFrag + `\s+expense\s+to\s+(\S.*?)` + whenFrag + `$`),
		},
		// Expense add.
		{
			name:       "add_expense",
			intent:     models.IntentAddExpense,
			confidence: 0.9,
			re:         regexp.MustCompile(`^(?:add|record|log|enter)\s+(?:an?\s+)?(?:new\s+)?expense\b`),
		},
		// Expense delete.
		{
			name:       "delete_expense_full",
			intent:     models.IntentDeleteExpense,
			confidence: 0.9,
			fields:     []FieldName{FieldDescription, FieldDate, FieldYear},
			re:         regexp.MustCompile(`^(?:delete|remove)\s+(?:the\s+)?expense\s+` + descFrag + whenFrag + `$`),
		},
		{
			name:       "delete_expense_inverted",
			intent:     models.IntentDeleteExpense,
			confidence: 0.85,
			fields:     []FieldName{FieldDescription, FieldDate, FieldYear},
			re:         regexp.MustCompile(`^(?:delete|remove)\s+(?:the\s+)?` + descFrag + `\s+expense` + whenFrag + `$`),
		},
	}

	return &PatternBank{entries: entries}
}

// Source implements Classifier.
func (b *PatternBank) Source() models.IntentSource {
	return models.SourceRegex
}

// Classify attempts each entry in bank order and returns the first match with
// its captured groups mapped positionally. No match returns nil.
func (b *PatternBank) Classify(text string) *models.IntentResult {
	for _, entry := range b.entries {
		matches := entry.re.FindStringSubmatch(text)
		if matches == nil {
			continue
		}

		groups := make([]string, 0, len(entry.fields))
		for i := range entry.fields {
			value := ""
			if i+1 < len(matches) {
				value = strings.TrimSpace(matches[i+1])
			}
			groups = append(groups, value)
		}

		slog.Debug("PatternBank.Classify: entry matched", "entry", entry.name, "intent", entry.intent, "groups", len(groups))
		return &models.IntentResult{
			Intent:     entry.name,
			Type:       entry.intent,
			Confidence: entry.confidence,
			Groups:     groups,
			Source:     models.SourceRegex,
		}
	}
	return nil
}

// Fields returns the capture schema declared for a pattern entry name. The
// dialogue engine uses it to map positional groups to search criteria.
func (b *PatternBank) Fields(entryName string) []FieldName {
	for _, entry := range b.entries {
		if entry.name == entryName {
			return entry.fields
		}
	}
	return nil
}
