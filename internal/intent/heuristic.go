// Package intent: keyword heuristic tier.
package intent

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/somOone/spa-assistant/internal/models"
)

// Scoring weights and adjustments. These values are empirically tuned and
// have no documented derivation; treat them as unverified magic numbers
// pending product validation.
const (
	weightKeywords    = 0.4
	weightObjects     = 0.3
	weightTimeContext = 0.2
	weightTimeExpr    = 0.1
	weightMoney       = 0.1

	questionBonus   = 0.5 // added to show_appointments on a "what" question
	questionPenalty = 0.4 // subtracted from non-query templates on any question
)

var (
	timeExprRegex  = regexp.MustCompile(`\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
	moneyExprRegex = regexp.MustCompile(`\$\d+(?:\.\d{1,2})?|\b\d+\s*(?:dollars?|bucks)\b`)
)

var timeWords = map[string]bool{
	"today": true, "tomorrow": true, "tonight": true, "yesterday": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"morning": true, "afternoon": true, "evening": true, "week": true,
}

var questionWords = map[string]bool{
	"what": true, "when": true, "where": true, "who": true,
	"why": true, "how": true, "which": true,
}

// heuristicTemplate declares the lexical profile of one intent.
type heuristicTemplate struct {
	name        string
	intent      models.IntentType
	keywords    []string // action verbs
	objects     []string // nouns the action operates on
	timeContext []string // phrases implying a scheduling context
	threshold   float64
	priority    int  // lower is selected first among qualifying templates
	query       bool // query templates escape the question-word penalty
}

// templates is the fixed template set. Priorities: book/add=1, change=2,
// show=3, cancel/delete=4, complete=5, help/how-to=10.
var templates = []heuristicTemplate{
	{
		name:        "book_appointment",
		intent:      models.IntentBookAppointment,
		keywords:    []string{"book", "schedule", "make", "reserve", "arrange", "need", "want"},
		objects:     []string{"appointment", "visit", "session", "slot", "facial", "massage", "combo"},
		timeContext: []string{"for tomorrow", "next week", "this week", "for today"},
		threshold:   0.25,
		priority:    1,
	},
	{
		name:        "add_expense",
		intent:      models.IntentAddExpense,
		keywords:    []string{"add", "record", "log", "enter", "spent", "paid", "bought"},
		objects:     []string{"expense", "cost", "purchase", "bill", "receipt", "supplies"},
		threshold:   0.25,
		priority:    1,
	},
	{
		name:        "change_appointment",
		intent:      models.IntentChangeAppointment,
		keywords:    []string{"change", "edit", "modify", "update", "switch", "move"},
		objects:     []string{"appointment", "booking", "visit", "session", "category"},
		timeContext: []string{"to a different", "instead of"},
		threshold:   0.3,
		priority:    2,
	},
	{
		name:        "change_expense",
		intent:      models.IntentChangeExpense,
		keywords:    []string{"change", "edit", "modify", "update", "fix", "correct"},
		objects:     []string{"expense", "amount", "cost", "charge"},
		threshold:   0.3,
		priority:    2,
	},
	{
		name:        "show_appointments",
		intent:      models.IntentShowAppointments,
		keywords:    []string{"show", "list", "view", "display", "see", "have"},
		objects:     []string{"appointments", "appointment", "schedule", "calendar", "bookings"},
		timeContext: []string{"this week", "next week", "for today"},
		threshold:   0.2,
		priority:    3,
		query:       true,
	},
	{
		name:        "cancel_appointment",
		intent:      models.IntentCancelAppointment,
		keywords:    []string{"cancel", "remove", "drop", "scrap", "forget"},
		objects:     []string{"appointment", "booking", "visit", "session"},
		threshold:   0.3,
		priority:    4,
	},
	{
		name:        "delete_expense",
		intent:      models.IntentDeleteExpense,
		keywords:    []string{"delete", "remove", "erase", "drop"},
		objects:     []string{"expense", "cost", "charge", "purchase"},
		threshold:   0.3,
		priority:    4,
	},
	{
		name:        "complete_appointment",
		intent:      models.IntentCompleteAppointment,
		keywords:    []string{"complete", "finish", "done", "close", "wrap"},
		objects:     []string{"appointment", "visit", "session"},
		threshold:   0.3,
		priority:    5,
	},
	{
		name:      "help_general",
		intent:    models.IntentHelpGeneral,
		keywords:  []string{"help", "assist", "stuck", "confused", "lost"},
		objects:   []string{"chatbot", "assistant", "bot", "commands"},
		threshold: 0.2,
		priority:  10,
		query:     true,
	},
	{
		name:      "how_to_questions",
		intent:    models.IntentHowTo,
		keywords:  []string{"how", "explain", "guide", "teach"},
		objects:   []string{"work", "works", "use", "cancel", "book", "add"},
		threshold: 0.2,
		priority:  10,
		query:     true,
	},
}

// lexicalFeatures are the simple features extracted from one input.
type lexicalFeatures struct {
	words        []string
	wordSet      map[string]bool
	hasTimeExpr  bool
	hasMoney     bool
	hasQuestion  bool
	whatQuestion bool
}

// HeuristicClassifier is the last deterministic tier: a weighted keyword and
// object scoring model with priority tie-breaking.
type HeuristicClassifier struct {
	templates []heuristicTemplate
}

// NewHeuristicClassifier creates the heuristic tier over the fixed templates.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{templates: templates}
}

// Source implements Classifier.
func (c *HeuristicClassifier) Source() models.IntentSource {
	return models.SourceHeuristic
}

// Classify scores every template and selects among those meeting their own
// threshold, preferring the lowest priority number and breaking ties by
// highest score. Nil when no template qualifies.
func (c *HeuristicClassifier) Classify(text string) *models.IntentResult {
	features := extractFeatures(text)
	if len(features.words) == 0 {
		return nil
	}

	var best *heuristicTemplate
	bestScore := 0.0
	for i := range c.templates {
		tmpl := &c.templates[i]
		score := c.scoreTemplate(tmpl, text, features)
		if score < tmpl.threshold {
			continue
		}
		if best == nil ||
			tmpl.priority < best.priority ||
			(tmpl.priority == best.priority && score > bestScore) {
			best = tmpl
			bestScore = score
		}
	}

	if best == nil {
		return nil
	}
	if bestScore > 1.0 {
		bestScore = 1.0
	}

	slog.Debug("HeuristicClassifier.Classify: template qualified", "template", best.name, "score", bestScore)
	return &models.IntentResult{
		Intent:     best.name,
		Type:       best.intent,
		Confidence: bestScore,
		Source:     models.SourceHeuristic,
	}
}

// scoreTemplate computes the weighted feature score for one template. A
// template with zero keyword and zero object overlap never qualifies: the
// context bonuses refine a lexical match, they cannot create one.
func (c *HeuristicClassifier) scoreTemplate(tmpl *heuristicTemplate, text string, f lexicalFeatures) float64 {
	keywordOverlap := overlapRatio(tmpl.keywords, f.wordSet)
	objectOverlap := overlapRatio(tmpl.objects, f.wordSet)
	if keywordOverlap == 0 && objectOverlap == 0 {
		return 0
	}

	score := weightKeywords*keywordOverlap + weightObjects*objectOverlap

	for _, phrase := range tmpl.timeContext {
		if strings.Contains(text, phrase) {
			score += weightTimeContext
			break
		}
	}
	if f.hasTimeExpr {
		score += weightTimeExpr
	}
	if f.hasMoney {
		score += weightMoney
	}

	if f.hasQuestion {
		if tmpl.intent == models.IntentShowAppointments && f.whatQuestion {
			score += questionBonus
		} else if !tmpl.query {
			score -= questionPenalty
		}
	}
	return score
}

// overlapRatio is the fraction of wanted terms present in the input word set.
func overlapRatio(wanted []string, wordSet map[string]bool) float64 {
	if len(wanted) == 0 {
		return 0
	}
	found := 0
	for _, w := range wanted {
		if wordSet[w] {
			found++
		}
	}
	return float64(found) / float64(len(wanted))
}

// extractFeatures pulls the lexical features off the lowercase word list.
func extractFeatures(text string) lexicalFeatures {
	ws := words(text)
	set := make(map[string]bool, len(ws))
	for _, w := range ws {
		set[w] = true
	}

	f := lexicalFeatures{
		words:       ws,
		wordSet:     set,
		hasTimeExpr: timeExprRegex.MatchString(text),
		hasMoney:    moneyExprRegex.MatchString(text),
	}
	for w := range set {
		if questionWords[w] {
			f.hasQuestion = true
			break
		}
	}
	f.whatQuestion = set["what"]
	for w := range timeWords {
		if set[w] {
			f.hasTimeExpr = true
			break
		}
	}
	return f
}
