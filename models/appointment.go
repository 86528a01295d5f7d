package models

import "time"

// Appointment statuses. A confirmed appointment is immutable except for the
// transition to cancelled.
const (
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment is a committed booking. EmployeeID is empty for businesses in
// generic mode. Time is the absolute slot start instant.
type Appointment struct {
	ID         string    `bson:"id" json:"id"`
	BusinessID string    `bson:"businessId" json:"business_id"`
	UserID     string    `bson:"userId" json:"user_id"`
	EmployeeID string    `bson:"employeeId,omitempty" json:"employee_id,omitempty"`
	Time       time.Time `bson:"appointmentTime" json:"appointment_time"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updated_at"`
}
