// Package flow: appointment edit workflow.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/somOone/spa-assistant/internal/models"
)

// startEdit searches for the open appointment and asks for the new category.
func (e *Engine) startEdit(ctx context.Context, conv *Conversation, criteria models.AppointmentCriteria) *TurnResult {
	result := &TurnResult{}
	criteria.Status = models.AppointmentStatusPending

	appointments, err := e.spa.SearchAppointments(ctx, criteria)
	if err != nil {
		slog.Error("Engine.startEdit: search failed", "error", err, "conversation", conv.ID)
		result.say(remoteErrorMessage(err))
		return result
	}
	if len(appointments) == 0 {
		result.say(appointmentNotFoundMessage(criteria))
		return result
	}

	appointment := appointments[0]
	conv.pending = &PendingEdit{
		Appointment: appointment,
		Criteria:    criteria,
		Step:        StepEditCategory,
	}
	slog.Debug("Engine.startEdit: edit pending", "conversation", conv.ID, "appointment_id", appointment.ID)
	result.say(fmt.Sprintf("I found an appointment for %s at %s on %s (currently %s). What should the new category be? (facial, massage, or combo)",
		appointment.Client, appointment.Time, appointment.Date, appointment.Category))
	return result
}

// resumeEdit advances a pending edit through category, reason and confirm.
func (e *Engine) resumeEdit(ctx context.Context, conv *Conversation, pending *PendingEdit, text string) *TurnResult {
	result := &TurnResult{}

	switch pending.Step {
	case StepEditCategory:
		if !models.IsValidUserCategory(text) {
			result.say(categoryReprompt)
			return result
		}
		pending.NewCategory = models.TranslateCategoryToDatabase(text)
		pending.NewPayment = models.PaymentForCategory(pending.NewCategory)
		pending.Step = StepEditReason
		result.say(fmt.Sprintf("Got it — %s. Why is this appointment changing? (Type 'no' to skip.)",
			strings.ToLower(strings.TrimSpace(text))))
		return result

	case StepEditReason:
		if isSkipAnswer(text) {
			pending.Reason = ""
		} else {
			pending.Reason = strings.TrimSpace(text)
		}
		pending.Step = StepEditConfirm
		appointment := pending.Appointment
		result.say(fmt.Sprintf("Change the appointment for %s from %s (%s) to %s (%s)? Type 'yes' to confirm or 'no' to cancel.",
			appointment.Client,
			appointment.Category, formatMoney(appointment.Payment),
			pending.NewCategory, formatMoney(pending.NewPayment)))
		return result

	case StepEditConfirm:
		appointment := pending.Appointment
		switch parseAffirmation(text) {
		case AnswerYes:
			update := models.AppointmentUpdate{
				Category: pending.NewCategory,
				Payment:  pending.NewPayment,
				Reason:   pending.Reason,
			}
			if err := e.spa.UpdateAppointment(ctx, appointment.ID, update); err != nil {
				slog.Error("Engine.resumeEdit: update failed", "error", err, "appointment_id", appointment.ID)
				conv.pending = nil
				result.say(remoteErrorMessage(err))
				return result
			}
			newCategory := pending.NewCategory
			newPayment := pending.NewPayment
			conv.pending = nil
			slog.Info("Engine.resumeEdit: appointment updated", "conversation", conv.ID, "appointment_id", appointment.ID, "category", newCategory)
			result.say(fmt.Sprintf("The appointment for %s is now %s (%s).",
				appointment.Client, newCategory, formatMoney(newPayment)))

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

	default:
		slog.Error("Engine.resumeEdit: unexpected step", "conversation", conv.ID, "step", pending.Step)
		conv.pending = nil
		result.say(genericErrorMessage)
		return result
	}
}
