package intent

import (
	"testing"

	"github.com/somOone/spa-assistant/internal/models"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Hello   World!! ", "hello world"},
		{"Cancel My Appointment.", "cancel my appointment"},
		{"HELP?", "help"},
		{"what can you do?!", "what can you do"},
		{"", ""},
		{"   ", ""},
		{"show\tme\nmy appointments", "show me my appointments"},
	}

	for _, tt := range tests {
		if got := normalizeText(tt.input); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEngineEmptyInput(t *testing.T) {
	engine := NewEngine()
	for _, input := range []string{"", "   ", "\t\n"} {
		result := engine.Classify(input)
		if result.Type != models.IntentUnknown || result.Source != models.SourceNone {
			t.Errorf("Classify(%q) = %+v, want unknown sentinel", input, result)
		}
	}
}

func TestEngineNoTierMatches(t *testing.T) {
	engine := NewEngine()
	result := engine.Classify("zxcvbnm qwerty asdf")
	if result.Type != models.IntentUnknown {
		t.Errorf("Classify gibberish type = %v, want unknown", result.Type)
	}
	if result.Confidence != 0 {
		t.Errorf("Classify gibberish confidence = %v, want 0", result.Confidence)
	}
	if result.Source != models.SourceNone {
		t.Errorf("Classify gibberish source = %v, want %v", result.Source, models.SourceNone)
	}
}

func TestEngineTierOrder(t *testing.T) {
	engine := NewEngine()

	// A full cancel command matches the pattern bank, never the fuzzy tiers.
	result := engine.Classify("Cancel appointment for John at 2:00 PM on August 19th")
	if result.Source != models.SourceRegex {
		t.Fatalf("full command source = %v, want %v", result.Source, models.SourceRegex)
	}
	if result.Type != models.IntentCancelAppointment {
		t.Errorf("full command type = %v", result.Type)
	}

	// A paraphrase the bank cannot match falls through to similarity.
	result = engine.Classify("get rid of my appointment")
	if result.Source != models.SourceSimilarity {
		t.Fatalf("paraphrase source = %v, want %v", result.Source, models.SourceSimilarity)
	}
	if result.Type != models.IntentCancelAppointment {
		t.Errorf("paraphrase type = %v", result.Type)
	}
}

// stubTier always answers, so the engine must only reach it when every
// default tier stayed silent.
type stubTier struct {
	result *models.IntentResult
	calls  int
}

func (s *stubTier) Source() models.IntentSource { return models.SourceGenAI }

func (s *stubTier) Classify(text string) *models.IntentResult {
	s.calls++
	return s.result
}

func TestEngineWithTier(t *testing.T) {
	stub := &stubTier{result: &models.IntentResult{
		Intent:     "book_appointment",
		Type:       models.IntentBookAppointment,
		Confidence: 0.7,
		Source:     models.SourceGenAI,
	}}
	engine := NewEngine(WithTier(stub))

	result := engine.Classify("zxcvbnm qwerty")
	if stub.calls != 1 {
		t.Fatalf("appended tier calls = %d, want 1", stub.calls)
	}
	if result.Source != models.SourceGenAI || result.Type != models.IntentBookAppointment {
		t.Errorf("appended tier result = %+v", result)
	}

	// A pattern match must short-circuit before the appended tier.
	engine.Classify("help")
	if stub.calls != 1 {
		t.Errorf("appended tier consulted despite earlier match, calls = %d", stub.calls)
	}
}
