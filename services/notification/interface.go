package notification

import (
	"context"

	"github.com/JustinVargasQ/ProyectoBueno/models"
)

// Kind distinguishes the message being dispatched for an appointment.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindReminder     Kind = "reminder"
)

// Dispatcher delivers appointment notifications to the external notifier.
// Delivery is best effort; callers must never let a dispatch failure affect
// the appointment itself.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind Kind, appt *models.Appointment, recipientEmail string) error
}
