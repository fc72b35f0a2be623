// Package flow: expense amount-change workflow.
package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/somOone/spa-assistant/internal/models"
)

// dispatchExpenseEdit starts an expense amount change from pattern captures
// (description, new value, optional date, optional year). Only exact pattern
// matches carry captures; fuzzy matches get usage guidance instead. An
// ambiguous search never mutates anything.
func (e *Engine) dispatchExpenseEdit(ctx context.Context, conv *Conversation, intentResult models.IntentResult) *TurnResult {
	result := &TurnResult{}
	if intentResult.Source != models.SourceRegex || len(intentResult.Groups) < 2 {
		result.say(expenseEditUsageMessage)
		return result
	}

	criteria := models.ExpenseCriteria{Description: intentResult.Groups[0]}
	if len(intentResult.Groups) > 2 {
		criteria.Date = intentResult.Groups[2]
	}
	if len(intentResult.Groups) > 3 {
		criteria.Year = intentResult.Groups[3]
	}
	value := intentResult.Groups[1]

	expenses, err := e.spa.SearchExpenses(ctx, criteria)
	if err != nil {
		slog.Error("Engine.dispatchExpenseEdit: search failed", "error", err, "conversation", conv.ID)
		result.say(remoteErrorMessage(err))
		return result
	}
	switch {
	case len(expenses) == 0:
		result.say(expenseNotFoundMessage(criteria))
		return result
	case len(expenses) > 1:
		result.say(expenseAmbiguousMessage(len(expenses), criteria))
		return result
	}

	expense := expenses[0]
	amount, ok := parseDollarAmount(value)
	if !ok {
		// Non-amount changes (description, category) go through the
		// expenses view rather than chat.
		slog.Debug("Engine.dispatchExpenseEdit: non-amount change, redirecting", "conversation", conv.ID, "expense_id", expense.ID)
		result.say(fmt.Sprintf("I can only change expense amounts from chat. I'll open %q in the expenses view so you can edit it there.", expense.Description))
		result.navigate(models.NavigateAfter(e.navDelay, fmt.Sprintf("%s?expandExpense=%d", expensesPath, expense.ID)))
		return result
	}

	conv.pending = &PendingExpenseEdit{
		Expense:   expense,
		NewAmount: amount,
		Step:      StepAwaitConfirm,
	}
	slog.Debug("Engine.dispatchExpenseEdit: edit pending", "conversation", conv.ID, "expense_id", expense.ID, "new_amount", amount)
	result.say(fmt.Sprintf("I found the expense %q (%s) on %s. Change the amount to %s? Type 'yes' to confirm or 'no' to cancel.",
		expense.Description, formatMoney(expense.Amount), expense.Date, formatMoney(amount)))
	return result
}

// resumeExpenseEdit settles the yes/no confirmation of a pending amount
// change.
func (e *Engine) resumeExpenseEdit(ctx context.Context, conv *Conversation, pending *PendingExpenseEdit, text string) *TurnResult {
	result := &TurnResult{}
	expense := pending.Expense

	switch parseAffirmation(text) {
	case AnswerYes:
		if err := e.spa.UpdateExpenseAmount(ctx, expense.ID, pending.NewAmount); err != nil {
			slog.Error("Engine.resumeExpenseEdit: update failed", "error", err, "expense_id", expense.ID)
			conv.pending = nil
			result.say(remoteErrorMessage(err))
			return result
		}
		newAmount := pending.NewAmount
		conv.pending = nil
		slog.Info("Engine.resumeExpenseEdit: expense updated", "conversation", conv.ID, "expense_id", expense.ID, "amount", newAmount)
		result.say(fmt.Sprintf("Done! The expense %q is now %s.", expense.Description, formatMoney(newAmount)))
		result.navigate(models.NavigateAfter(e.navDelay, fmt.Sprintf("%s?expandExpense=%d", expensesPath, expense.ID)))
		return result

	case AnswerNo:
		conv.pending = nil
		result.say("Okay, the expense is unchanged.")
		return result

	default:
		result.say(confirmReprompt)
		return result
	}
}
