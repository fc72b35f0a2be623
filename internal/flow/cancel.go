// Package flow: appointment cancellation workflow.
package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/somOone/spa-assistant/internal/models"
)

// startCancellation validates the request against the backend before claiming
// anything exists. Zero matches leave the conversation idle; one or more take
// the first and ask for confirmation.
func (e *Engine) startCancellation(ctx context.Context, conv *Conversation, criteria models.AppointmentCriteria) *TurnResult {
	result := &TurnResult{}
	criteria.Status = models.AppointmentStatusPending

	appointments, err := e.spa.SearchAppointments(ctx, criteria)
	if err != nil {
		slog.Error("Engine.startCancellation: search failed", "error", err, "conversation", conv.ID)
		result.say(remoteErrorMessage(err))
		return result
	}
	if len(appointments) == 0 {
		result.say(appointmentNotFoundMessage(criteria))
		return result
	}

	appointment := appointments[0]
	conv.pending = &PendingCancellation{
		Appointment: appointment,
		Criteria:    criteria,
		Step:        StepAwaitConfirm,
	}
	slog.Debug("Engine.startCancellation: cancellation pending", "conversation", conv.ID, "appointment_id", appointment.ID)
	result.say(fmt.Sprintf("I found an appointment for %s at %s on %s. Type 'yes' to cancel it.",
		appointment.Client, appointment.Time, appointment.Date))
	return result
}

// resumeCancellation handles the yes/no answer for a pending cancellation.
func (e *Engine) resumeCancellation(ctx context.Context, conv *Conversation, pending *PendingCancellation, text string) *TurnResult {
	result := &TurnResult{}
	appointment := pending.Appointment

	switch parseAffirmation(text) {
	case AnswerYes:
		if err := e.spa.DeleteAppointment(ctx, appointment.ID); err != nil {
			slog.Error("Engine.resumeCancellation: delete failed", "error", err, "appointment_id", appointment.ID)
			conv.pending = nil
			result.say(remoteErrorMessage(err))
			return result
		}
		conv.pending = nil
		slog.Info("Engine.resumeCancellation: appointment cancelled", "conversation", conv.ID, "appointment_id", appointment.ID)
		result.say(fmt.Sprintf("Done! The appointment for %s at %s on %s has been cancelled.",
			appointment.Client, appointment.Time, appointment.Date))

		e.notifyClient(ctx, appointment, fmt.Sprintf(
			"Hi %s, your spa appointment at %s on %s has been cancelled. See you next time!",
			appointment.Client, appointment.Time, appointment.Date))

		url := appointmentsPath
		if iso := toISODate(pending.Criteria.Date, pending.Criteria.Year); iso != "" {
			url += "?date=" + iso
		}
		result.navigate(models.NavigateAfter(e.navDelay, url))
		return result

	case AnswerNo:
		conv.pending = nil
		result.say("Okay, your appointment is unchanged.")
		return result

	default:
		result.say(confirmReprompt)
		return result
	}
}
