package appointmentRepo

import (
	"context"
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/models"
)

// AppointmentRepository is the authoritative ledger of appointments. The
// slot lists shown during a conversation are advisory; Commit re-validates
// the slot key atomically at write time.
type AppointmentRepository interface {
	// Commit atomically inserts a confirmed appointment. It returns a
	// *ConflictError when a non-cancelled appointment already holds the same
	// (business, employee-or-none, time) key.
	Commit(ctx context.Context, appt *models.Appointment) error
	// UpdateStatus transitions an appointment's status; cancelling frees the
	// underlying slot for subsequent availability computations.
	UpdateStatus(id string, status string) (*models.Appointment, error)
	// GetByID retrieves an appointment by its unique ID.
	GetByID(id string) (*models.Appointment, error)
	// GetByUser retrieves all appointments booked by a user.
	GetByUser(userID string) ([]models.Appointment, error)
	// GetByBusinessAndDay retrieves the non-cancelled appointments of a
	// business on the day containing dayStart. When employeeID is non-empty
	// the result is restricted to that employee.
	GetByBusinessAndDay(businessID string, dayStart time.Time, employeeID string) ([]models.Appointment, error)
}
