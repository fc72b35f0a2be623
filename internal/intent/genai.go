// Package intent: optional GenAI fallback tier.
package intent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/somOone/spa-assistant/internal/genai"
	"github.com/somOone/spa-assistant/internal/models"
)

// genaiTimeout bounds a fallback classification so a slow completion cannot
// stall the turn.
const genaiTimeout = 10 * time.Second

// genaiMinConfidence discards low-confidence model guesses.
const genaiMinConfidence = 0.5

const genaiSystemPrompt = `You classify chat messages for a spa management assistant.
Return ONLY a JSON object: {"intent": "<name>", "confidence": 0.0-1.0}
The intent name must be one of:
book_appointment, cancel_appointment, complete_appointment, change_appointment,
show_appointments, add_expense, change_expense, delete_expense, help_general,
how_to_question, unknown.
Use "unknown" when the message fits nothing. No other text.`

// genaiIntentTypes whitelists the names the model may return.
var genaiIntentTypes = map[string]models.IntentType{
	"book_appointment":     models.IntentBookAppointment,
	"cancel_appointment":   models.IntentCancelAppointment,
	"complete_appointment": models.IntentCompleteAppointment,
	"change_appointment":   models.IntentChangeAppointment,
	"show_appointments":    models.IntentShowAppointments,
	"add_expense":          models.IntentAddExpense,
	"change_expense":       models.IntentChangeExpense,
	"delete_expense":       models.IntentDeleteExpense,
	"help_general":         models.IntentHelpGeneral,
	"how_to_question":      models.IntentHowTo,
}

// GenAIClassifier is the optional last tier: it consults an LLM only when the
// deterministic tiers were all silent, and degrades silently to "no match" on
// any failure so an outage never breaks classification.
type GenAIClassifier struct {
	client genai.ClientInterface
}

// NewGenAIClassifier creates the GenAI fallback tier.
func NewGenAIClassifier(client genai.ClientInterface) *GenAIClassifier {
	return &GenAIClassifier{client: client}
}

// Source implements Classifier.
func (c *GenAIClassifier) Source() models.IntentSource {
	return models.SourceGenAI
}

// Classify asks the model for a constrained JSON classification.
func (c *GenAIClassifier) Classify(text string) *models.IntentResult {
	if c.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), genaiTimeout)
	defer cancel()

	raw, err := c.client.GeneratePrompt(ctx, genaiSystemPrompt, text)
	if err != nil {
		slog.Warn("GenAIClassifier.Classify: completion failed, staying silent", "error", err)
		return nil
	}

	var parsed struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		slog.Warn("GenAIClassifier.Classify: unparseable model output", "error", err)
		return nil
	}

	intentType, known := genaiIntentTypes[parsed.Intent]
	if !known || parsed.Confidence < genaiMinConfidence {
		slog.Debug("GenAIClassifier.Classify: no usable classification", "intent", parsed.Intent, "confidence", parsed.Confidence)
		return nil
	}
	if parsed.Confidence > 1.0 {
		parsed.Confidence = 1.0
	}

	slog.Debug("GenAIClassifier.Classify: model classified", "intent", parsed.Intent, "confidence", parsed.Confidence)
	return &models.IntentResult{
		Intent:     parsed.Intent,
		Type:       intentType,
		Confidence: parsed.Confidence,
		Source:     models.SourceGenAI,
	}
}
