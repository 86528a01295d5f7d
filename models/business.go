package models

import (
	"time"
)

// Appointment modes supported by a business.
const (
	AppointmentModeGeneric     = "generic"
	AppointmentModePerEmployee = "per_employee"
)

// DaySchedule is the opening window for a single weekday.
// Open and Close are wall-clock times in "HH:MM" form.
type DaySchedule struct {
	Open   string `bson:"open" json:"open"`
	Close  string `bson:"close" json:"close"`
	Closed bool   `bson:"closed" json:"closed"`
}

// WeeklySchedule maps lowercase weekday names ("monday".."sunday") to
// their opening windows. Missing days are treated as closed.
type WeeklySchedule struct {
	Days map[string]DaySchedule `bson:"days" json:"days"`
}

// DayFor returns the schedule entry for the given weekday and whether the
// business opens at all that day.
func (s *WeeklySchedule) DayFor(day time.Weekday) (DaySchedule, bool) {
	if s == nil || s.Days == nil {
		return DaySchedule{}, false
	}
	ds, ok := s.Days[WeekdayKey(day)]
	if !ok || ds.Closed {
		return DaySchedule{}, false
	}
	return ds, true
}

// WeekdayKey converts a time.Weekday to the lowercase key used in schedules.
func WeekdayKey(day time.Weekday) string {
	switch day {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// Business is a bookable business with a weekly schedule and a fixed slot
// granularity. In per_employee mode every appointment is scoped to one of
// the business's active employees.
type Business struct {
	ID                  string          `bson:"id" json:"id"`
	OwnerID             string          `bson:"ownerId" json:"owner_id"`
	Name                string          `bson:"name" json:"name"`
	Description         string          `bson:"description,omitempty" json:"description,omitempty"`
	Address             string          `bson:"address,omitempty" json:"address,omitempty"`
	Categories          []string        `bson:"categories,omitempty" json:"categories,omitempty"`
	Status              string          `bson:"status" json:"status"`
	AppointmentMode     string          `bson:"appointmentMode" json:"appointment_mode"`
	SlotDurationMinutes int             `bson:"slotDurationMinutes" json:"slot_duration_minutes"`
	Schedule            *WeeklySchedule `bson:"schedule,omitempty" json:"schedule,omitempty"`
	AvgRating           float64         `bson:"avgRating,omitempty" json:"avg_rating,omitempty"`
	CreatedAt           time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt           time.Time       `bson:"updatedAt" json:"updated_at"`
}

// PerEmployee reports whether appointments at this business must name an employee.
func (b *Business) PerEmployee() bool {
	return b.AppointmentMode == AppointmentModePerEmployee
}
