package availability

import (
	"fmt"
	"time"

	appointmentRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	businessRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/business"
	employeeRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/employee"
	"github.com/JustinVargasQ/ProyectoBueno/models"
	"github.com/JustinVargasQ/ProyectoBueno/utils"

	"go.uber.org/zap"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	// defaultSlotMinutes applies when a business has no granularity configured.
	defaultSlotMinutes = 30
)

// Service computes bookable slot start times. All reads are advisory: the
// appointment ledger re-validates the chosen slot at commit time.
type Service interface {
	// GetAvailableSlots returns the open, unbooked "HH:MM" start times for a
	// business on the given "YYYY-MM-DD" date, ascending. employeeID may be
	// empty for business-wide availability.
	GetAvailableSlots(businessID, date, employeeID string) ([]string, error)
	// SlotsViewFor computes availability for today, tomorrow and the day
	// after, for attachment to a conversational reply.
	SlotsViewFor(businessID, employeeID string) (*models.SlotsView, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	BusinessRepo businessRepo.BusinessRepository
	EmployeeRepo employeeRepo.EmployeeRepository
	Ledger       appointmentRepo.AppointmentRepository

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetAvailableSlots is a pure read: it performs no writes and returns
// identical sequences for identical ledger state.
func (s *DefaultAvailabilityService) GetAvailableSlots(businessID, date, employeeID string) ([]string, error) {
	business, err := s.BusinessRepo.GetByID(businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load business %s: %w", businessID, err)
	}
	if business == nil {
		return nil, NewValidationError(fmt.Sprintf("unknown business id %q", businessID))
	}

	now := s.now()
	day, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}

	schedule := business.Schedule
	if employeeID != "" {
		employee, err := s.EmployeeRepo.GetByID(employeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employee %s: %w", employeeID, err)
		}
		if employee == nil || employee.BusinessID != businessID || !employee.Active {
			return nil, NewValidationError(fmt.Sprintf("unknown employee id %q for business %q", employeeID, businessID))
		}
		if employee.Schedule != nil {
			schedule = employee.Schedule
		}
	}

	window, open := scheduleWindow(schedule, day)
	if !open {
		return []string{}, nil
	}

	duration := time.Duration(business.SlotDurationMinutes) * time.Minute
	if duration <= 0 {
		duration = defaultSlotMinutes * time.Minute
	}

	// In generic mode every appointment at the business consumes the slot; in
	// per_employee mode with an employee resolved only that employee's
	// appointments count.
	busyFilter := employeeID
	if !business.PerEmployee() {
		busyFilter = ""
	}
	appts, err := s.Ledger.GetByBusinessAndDay(businessID, day, busyFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments for business %s on %s: %w", businessID, date, err)
	}

	busy := make([]Interval, 0, len(appts))
	for _, a := range appts {
		start := a.Time.In(now.Location())
		busy = append(busy, Interval{Start: start, End: start.Add(duration)})
	}

	starts := SlotStarts(window.Start, window.End, duration, duration, busy, now)
	out := make([]string, 0, len(starts))
	for _, t := range starts {
		out = append(out, t.Format(clockLayout))
	}
	return out, nil
}

// SlotsViewFor assembles the three-day availability snapshot shown alongside
// conversational replies. Per-day failures degrade to an empty day rather
// than failing the turn.
func (s *DefaultAvailabilityService) SlotsViewFor(businessID, employeeID string) (*models.SlotsView, error) {
	view := &models.SlotsView{}
	days := []*models.DaySlots{&view.Today, &view.Tomorrow, &view.DayAfter}

	for offset, target := range days {
		date := s.now().AddDate(0, 0, offset).Format(dateLayout)
		slots, err := s.GetAvailableSlots(businessID, date, employeeID)
		if err != nil {
			if IsValidation(err) {
				return nil, err
			}
			utils.GetLogger().Warn("failed to compute slots for day",
				zap.String("businessID", businessID), zap.String("date", date), zap.Error(err))
			*target = models.DaySlots{Date: date, Slots: []string{}}
			continue
		}
		*target = models.DaySlots{Date: date, Slots: slots}
	}
	return view, nil
}

// scheduleWindow resolves the absolute open/close instants for the given day.
func scheduleWindow(schedule *models.WeeklySchedule, day time.Time) (Interval, bool) {
	ds, open := schedule.DayFor(day.Weekday())
	if !open {
		return Interval{}, false
	}
	start, err := clockOn(day, ds.Open)
	if err != nil {
		return Interval{}, false
	}
	end, err := clockOn(day, ds.Close)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// clockOn anchors an "HH:MM" wall-clock time onto the given day.
func clockOn(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
