// Package flow: appointment completion workflow.
package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/somOone/spa-assistant/internal/models"
)

// startCompletion searches for the pending appointment and moves to tip
// collection when found.
func (e *Engine) startCompletion(ctx context.Context, conv *Conversation, criteria models.AppointmentCriteria) *TurnResult {
	result := &TurnResult{}
	criteria.Status = models.AppointmentStatusPending

	appointments, err := e.spa.SearchAppointments(ctx, criteria)
	if err != nil {
		slog.Error("Engine.startCompletion: search failed", "error", err, "conversation", conv.ID)
		result.say(remoteErrorMessage(err))
		return result
	}
	if len(appointments) == 0 {
		result.say(appointmentNotFoundMessage(criteria))
		return result
	}

	appointment := appointments[0]
	conv.pending = &PendingCompletion{
		Appointment: appointment,
		Criteria:    criteria,
		Step:        StepCompletionTip,
	}
	slog.Debug("Engine.startCompletion: completion pending", "conversation", conv.ID, "appointment_id", appointment.ID)
	result.say(fmt.Sprintf("I found an appointment for %s at %s on %s. How much was the tip? (Type a number, or 'no' for no tip.)",
		appointment.Client, appointment.Time, appointment.Date))
	return result
}

// resumeCompletion advances a pending completion: first the tip answer, then
// the confirmation.
func (e *Engine) resumeCompletion(ctx context.Context, conv *Conversation, pending *PendingCompletion, text string) *TurnResult {
	result := &TurnResult{}

	switch pending.Step {
	case StepCompletionTip:
		tip, ok := parseTip(text)
		if !ok {
			result.say(tipReprompt)
			return result
		}
		pending.Tip = tip
		pending.Step = StepCompletionConfirm
		if tip > 0 {
			result.say(fmt.Sprintf("Complete the appointment for %s with a %s tip? Type 'yes' to confirm or 'no' to cancel.",
				pending.Appointment.Client, formatMoney(tip)))
		} else {
			result.say(fmt.Sprintf("Complete the appointment for %s with no tip? Type 'yes' to confirm or 'no' to cancel.",
				pending.Appointment.Client))
		}
		return result

	case StepCompletionConfirm:
		appointment := pending.Appointment
		switch parseAffirmation(text) {
		case AnswerYes:
			if err := e.spa.CompleteAppointment(ctx, appointment.ID, pending.Tip); err != nil {
				slog.Error("Engine.resumeCompletion: complete failed", "error", err, "appointment_id", appointment.ID)
				conv.pending = nil
				result.say(remoteErrorMessage(err))
				return result
			}
			tip := pending.Tip
			conv.pending = nil
			slog.Info("Engine.resumeCompletion: appointment completed", "conversation", conv.ID, "appointment_id", appointment.ID, "tip", tip)
			if tip > 0 {
				result.say(fmt.Sprintf("The appointment for %s has been completed with a %s tip.",
					appointment.Client, formatMoney(tip)))
			} else {
				result.say(fmt.Sprintf("The appointment for %s has been completed with no tip.", appointment.Client))
			}

			e.notifyClient(ctx, appointment, fmt.Sprintf(
				"Hi %s, thanks for visiting the spa today! We hope to see you again soon.", appointment.Client))

			url := appointmentsPath
			if iso := toISODate(pending.Criteria.Date, pending.Criteria.Year); iso != "" {
				url += "?date=" + iso
			}
			result.navigate(models.NavigateAfter(e.navDelay, url))
			return result

		case AnswerNo:
			conv.pending = nil
			result.say("Okay, the appointment was left as is.")
			return result

		default:
			result.say(confirmReprompt)
			return result
		}

	default:
		slog.Error("Engine.resumeCompletion: unexpected step", "conversation", conv.ID, "step", pending.Step)
		conv.pending = nil
		result.say(genericErrorMessage)
		return result
	}
}
