// Package intent: example-similarity tier.
package intent

import (
	"log/slog"
	"strings"

	"github.com/somOone/spa-assistant/internal/models"
)

// similarityThreshold is the minimum score an example must reach to produce a
// classification. Below it the tier stays silent.
const similarityThreshold = 0.6

// Example phrase scores.
const (
	scoreExact     = 1.0
	scoreSubstring = 0.8
)

// exampleCorpus maps a category to curated example phrasings. The corpus
// catches paraphrases the regex bank cannot anticipate without the cost of a
// trained model.
var exampleCorpus = map[string][]string{
	string(models.IntentBookAppointment): {
		"i want to book an appointment",
		"i need to schedule a visit",
		"can i get an appointment",
		"i would like to come in",
		"set me up with an appointment",
	},
	string(models.IntentCancelAppointment): {
		"i want to cancel my appointment",
		"i need to cancel an appointment",
		"get rid of my appointment",
		"call off my appointment",
		"i can't make my appointment",
	},
	string(models.IntentCompleteAppointment): {
		"mark the appointment as done",
		"the appointment is finished",
		"close out the appointment",
		"finish up the appointment",
	},
	string(models.IntentChangeAppointment): {
		"i want to change my appointment",
		"i need to modify an appointment",
		"switch my appointment to something else",
		"update the appointment details",
	},
	string(models.IntentShowAppointments): {
		"show me my appointments",
		"what is on my schedule",
		"what do i have coming up",
		"list my upcoming appointments",
	},
	string(models.IntentAddExpense): {
		"i want to add an expense",
		"record a new expense",
		"log an expense for me",
		"i spent some money",
	},
	string(models.IntentChangeExpense): {
		"i want to change an expense",
		"fix the amount on an expense",
		"update one of my expenses",
	},
	string(models.IntentDeleteExpense): {
		"i want to delete an expense",
		"remove one of my expenses",
		"get rid of an expense",
	},
	string(models.IntentHelpGeneral): {
		"help",
		"i'm stuck",
		"what can you do",
		"i don't know what to type",
	},
	string(models.IntentHowTo): {
		"how do i cancel an appointment",
		"how do i add an expense",
		"how does this work",
	},
}

// categoryTypes maps corpus categories to intent types.
var categoryTypes = map[string]models.IntentType{
	string(models.IntentBookAppointment):     models.IntentBookAppointment,
	string(models.IntentCancelAppointment):   models.IntentCancelAppointment,
	string(models.IntentCompleteAppointment): models.IntentCompleteAppointment,
	string(models.IntentChangeAppointment):   models.IntentChangeAppointment,
	string(models.IntentShowAppointments):    models.IntentShowAppointments,
	string(models.IntentAddExpense):          models.IntentAddExpense,
	string(models.IntentChangeExpense):       models.IntentChangeExpense,
	string(models.IntentDeleteExpense):       models.IntentDeleteExpense,
	string(models.IntentHelpGeneral):         models.IntentHelpGeneral,
	string(models.IntentHowTo):               models.IntentHowTo,
}

// categoryPriorities breaks score ties: the lower number wins.
var categoryPriorities = map[string]int{
	string(models.IntentBookAppointment):     1,
	string(models.IntentAddExpense):          1,
	string(models.IntentChangeAppointment):   2,
	string(models.IntentChangeExpense):       2,
	string(models.IntentShowAppointments):    3,
	string(models.IntentCancelAppointment):   4,
	string(models.IntentDeleteExpense):       4,
	string(models.IntentCompleteAppointment): 5,
	string(models.IntentHelpGeneral):         10,
	string(models.IntentHowTo):               10,
}

// SimilarityClassifier scores the input against a curated example corpus:
// exact match 1.0, substring containment 0.8, otherwise Jaccard word overlap.
type SimilarityClassifier struct {
	corpus     map[string][]string
	types      map[string]models.IntentType
	priorities map[string]int
}

// NewSimilarityClassifier creates the similarity tier over the built-in corpus.
func NewSimilarityClassifier() *SimilarityClassifier {
	return &SimilarityClassifier{
		corpus:     exampleCorpus,
		types:      categoryTypes,
		priorities: categoryPriorities,
	}
}

// Source implements Classifier.
func (c *SimilarityClassifier) Source() models.IntentSource {
	return models.SourceSimilarity
}

// Classify scores every example in the corpus and keeps the highest-scoring
// one at or above the threshold, breaking ties by category priority. Nothing
// above the threshold returns nil.
func (c *SimilarityClassifier) Classify(text string) *models.IntentResult {
	bestScore := 0.0
	bestCategory := ""

	for category, examples := range c.corpus {
		for _, example := range examples {
			score := phraseScore(text, example)
			if score < similarityThreshold {
				continue
			}
			if score > bestScore ||
				(score == bestScore && c.priorities[category] < c.priorities[bestCategory]) {
				bestScore = score
				bestCategory = category
			}
		}
	}

	if bestCategory == "" {
		return nil
	}

	slog.Debug("SimilarityClassifier.Classify: example matched", "category", bestCategory, "score", bestScore)
	return &models.IntentResult{
		Intent:     bestCategory,
		Type:       c.types[bestCategory],
		Confidence: bestScore,
		Source:     models.SourceSimilarity,
	}
}

// phraseScore computes the similarity of the input to one example phrase.
func phraseScore(text, example string) float64 {
	if text == example {
		return scoreExact
	}
	if strings.Contains(text, example) || strings.Contains(example, text) {
		return scoreSubstring
	}
	return jaccard(words(text), words(example))
}

// jaccard computes word-set overlap: |A∩B| / |A∪B|.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, w := range a {
		setA[w] = true
	}
	setB := make(map[string]bool, len(b))
	for _, w := range b {
		setB[w] = true
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
