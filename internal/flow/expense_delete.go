// Package flow: expense deletion workflow.
package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/somOone/spa-assistant/internal/models"
)

// dispatchExpenseDelete starts an expense deletion from pattern captures
// (description, optional date, optional year). Deletion requires a unique
// match; an ambiguous search asks for narrower criteria instead.
func (e *Engine) dispatchExpenseDelete(ctx context.Context, conv *Conversation, intentResult models.IntentResult) *TurnResult {
	result := &TurnResult{}
	if intentResult.Source != models.SourceRegex || len(intentResult.Groups) < 1 {
		result.say(expenseDeleteUsageMessage)
		return result
	}

	criteria := models.ExpenseCriteria{Description: intentResult.Groups[0]}
	if len(intentResult.Groups) > 1 {
		criteria.Date = intentResult.Groups[1]
	}
	if len(intentResult.Groups) > 2 {
		criteria.Year = intentResult.Groups[2]
	}

	expenses, err := e.spa.SearchExpenses(ctx, criteria)
	if err != nil {
		slog.Error("Engine.dispatchExpenseDelete: search failed", "error", err, "conversation", conv.ID)
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
	conv.pending = &PendingExpenseDelete{
		Expense: expense,
		Step:    StepAwaitConfirm,
	}
	slog.Debug("Engine.dispatchExpenseDelete: deletion pending", "conversation", conv.ID, "expense_id", expense.ID)
	result.say(fmt.Sprintf("I found the expense %q (%s) on %s. Type 'yes' to delete it or 'no' to keep it.",
		expense.Description, formatMoney(expense.Amount), expense.Date))
	return result
}

// resumeExpenseDelete settles the yes/no confirmation of a pending deletion.
func (e *Engine) resumeExpenseDelete(ctx context.Context, conv *Conversation, pending *PendingExpenseDelete, text string) *TurnResult {
	result := &TurnResult{}
	expense := pending.Expense

	switch parseAffirmation(text) {
	case AnswerYes:
		if err := e.spa.DeleteExpense(ctx, expense.ID); err != nil {
			slog.Error("Engine.resumeExpenseDelete: delete failed", "error", err, "expense_id", expense.ID)
			conv.pending = nil
			result.say(remoteErrorMessage(err))
			return result
		}
		conv.pending = nil
		slog.Info("Engine.resumeExpenseDelete: expense deleted", "conversation", conv.ID, "expense_id", expense.ID)
		result.say(fmt.Sprintf("Done! The expense %q has been deleted.", expense.Description))

		url := expensesPath
		if year, month, ok := expenseMonth(expense.Date); ok {
			url = fmt.Sprintf("%s?expandYear=%d&expandMonth=%d", expensesPath, year, int(month))
		}
		result.navigate(models.NavigateAfter(e.navDelay, url))
		return result

	case AnswerNo:
		conv.pending = nil
		result.say("Okay, the expense was kept.")
		return result

	default:
		result.say(confirmReprompt)
		return result
	}
}
