// Package flow: parsing of free-text answers inside an active workflow.
package flow

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Affirmation is the parsed meaning of a reply at a confirm step.
type Affirmation int

// Affirmation values.
const (
	AnswerUnclear Affirmation = iota
	AnswerYes
	AnswerNo
)

// parseAffirmation interprets a confirm-step reply: any reply containing
// "yes" confirms, otherwise any reply containing "no" declines, anything else
// is unclear and re-prompts without changing step.
func parseAffirmation(text string) Affirmation {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "yes") {
		return AnswerYes
	}
	if strings.Contains(lower, "no") {
		return AnswerNo
	}
	return AnswerUnclear
}

// parseTip interprets a tip-step reply. "no" and "none" mean no tip; any
// parseable non-negative number is accepted. ok is false for negative or
// unparseable input.
func parseTip(text string) (tip float64, ok bool) {
	answer := strings.ToLower(strings.TrimSpace(text))
	if answer == "no" || answer == "none" || answer == "no tip" {
		return 0, true
	}
	answer = strings.TrimPrefix(answer, "$")
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// parseDollarAmount reports whether text is a dollar amount ("45", "$45.50").
// Non-amounts mean the requested expense change is a category or description
// edit, which chat does not mutate directly.
func parseDollarAmount(text string) (amount float64, ok bool) {
	answer := strings.TrimSpace(text)
	answer = strings.TrimPrefix(answer, "$")
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// isSkipAnswer reports whether a reply declines an optional question ("no",
// "none"); the answer is then stored as empty.
func isSkipAnswer(text string) bool {
	answer := strings.ToLower(strings.TrimSpace(text))
	return answer == "no" || answer == "none" || answer == "skip"
}

// stripOrdinal removes "st"/"nd"/"rd"/"th" from a day ordinal.
func stripOrdinal(day string) string {
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(day, suffix) {
			return strings.TrimSuffix(day, suffix)
		}
	}
	return day
}

// toISODate converts a spoken date ("august 19th" / "August 19") plus an
// optional year into YYYY-MM-DD for navigation query parameters. An empty
// year defaults to the current year. Returns "" when the date cannot be
// parsed; navigation then omits the date filter.
func toISODate(date, year string) string {
	fields := strings.Fields(strings.TrimSpace(date))
	if len(fields) != 2 {
		return ""
	}
	month := strings.ToLower(fields[0])
	month = strings.ToUpper(month[:1]) + month[1:]
	day := stripOrdinal(strings.ToLower(fields[1]))
	if year == "" {
		year = strconv.Itoa(time.Now().Year())
	}

	parsed, err := time.Parse("January 2 2006", fmt.Sprintf("%s %s %s", month, day, year))
	if err != nil {
		return ""
	}
	return parsed.Format("2006-01-02")
}

// expenseMonth extracts the year and month of an expense date for the
// expenses-view navigation scope. Dates arrive from the backend in ISO form;
// spoken forms are tried as a fallback.
func expenseMonth(date string) (year int, month time.Month, ok bool) {
	for _, layout := range []string{"2006-01-02", "January 2 2006", "January 2, 2006"} {
		if parsed, err := time.Parse(layout, strings.TrimSpace(date)); err == nil {
			return parsed.Year(), parsed.Month(), true
		}
	}
	return 0, 0, false
}

// formatMoney renders a dollar amount for chat messages.
func formatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
