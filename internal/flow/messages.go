// Package flow: user-facing bot messages.
package flow

import (
	"fmt"

	"github.com/somOone/spa-assistant/internal/models"
)

const (
	helpMessage = "I can help you manage the spa. Try things like:\n" +
		"• \"cancel appointment for John at 2:00 PM on August 19th\"\n" +
		"• \"complete appointment for Ann at 11:00 AM on July 2nd\"\n" +
		"• \"change appointment for Sarah at 3:00 PM on August 21st\"\n" +
		"• \"show my appointments\"\n" +
		"• \"change expense office supplies to $45\"\n" +
		"• \"delete expense gas\""

	howToMessage = "Tell me what you want to do and include the details in one message. " +
		"For appointments I need the client, time and date, like " +
		"\"cancel appointment for John at 2:00 PM on August 19th\". " +
		"For expenses I need the description, like \"delete expense gas\"."

	unknownMessage = "I'm not sure what you'd like to do. Type 'help' to see what I can do."

	genericErrorMessage = "I encountered an error, please try again."

	confirmReprompt = "Please type 'yes' to confirm or 'no' to cancel."

	categoryReprompt = "Please choose one of: facial, massage, or combo."

	tipReprompt = "Please enter a valid tip amount (a number, or 'no' for no tip)."

	cancelUsageMessage = "I can cancel an appointment for you. Tell me which one, like: " +
		"\"cancel appointment for John at 2:00 PM on August 19th\"."

	completeUsageMessage = "I can mark an appointment completed. Tell me which one, like: " +
		"\"complete appointment for John at 2:00 PM on August 19th\"."

	editUsageMessage = "I can change an appointment's category. Tell me which one, like: " +
		"\"change appointment for Sarah at 3:00 PM on August 21st\"."

	expenseEditUsageMessage = "I can update an expense amount. Tell me which one, like: " +
		"\"change expense office supplies to $45\"."

	expenseDeleteUsageMessage = "I can delete an expense. Tell me which one, like: " +
		"\"delete expense gas\"."
)

// appointmentNotFoundMessage describes a failed appointment search in the
// user's own terms.
func appointmentNotFoundMessage(criteria models.AppointmentCriteria) string {
	msg := fmt.Sprintf("I couldn't find an open appointment for %s at %s on %s", criteria.Client, criteria.Time, criteria.Date)
	if criteria.Year != "" {
		msg += ", " + criteria.Year
	}
	return msg + "."
}

// expenseNotFoundMessage describes a failed expense search.
func expenseNotFoundMessage(criteria models.ExpenseCriteria) string {
	return fmt.Sprintf("I couldn't find an expense matching %q.", criteria.Description)
}

// expenseAmbiguousMessage asks the user to narrow an ambiguous expense search.
// Chat-driven mutation never proceeds against more than one match.
func expenseAmbiguousMessage(count int, criteria models.ExpenseCriteria) string {
	return fmt.Sprintf("I found %d expenses matching %q. Please be more specific, for example by adding the date.", count, criteria.Description)
}
