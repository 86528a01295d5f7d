package availability

import (
	"context"
	"testing"
	"time"

	appointmentRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	"github.com/JustinVargasQ/ProyectoBueno/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBusinessRepo struct {
	businesses map[string]*models.Business
}

func (f *fakeBusinessRepo) GetByID(id string) (*models.Business, error) {
	return f.businesses[id], nil
}

func (f *fakeBusinessRepo) GetPublished() ([]models.Business, error) {
	var out []models.Business
	for _, b := range f.businesses {
		out = append(out, *b)
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*models.Employee
}

func (f *fakeEmployeeRepo) GetByID(id string) (*models.Employee, error) {
	return f.employees[id], nil
}

func (f *fakeEmployeeRepo) GetActiveByBusiness(businessID string) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range f.employees {
		if e.BusinessID == businessID && e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeLedger struct {
	appts []models.Appointment
}

func (f *fakeLedger) Commit(ctx context.Context, appt *models.Appointment) error {
	appt.Status = models.AppointmentStatusConfirmed
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeLedger) UpdateStatus(id string, status string) (*models.Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i].Status = status
			return &f.appts[i], nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (f *fakeLedger) GetByID(id string) (*models.Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			return &f.appts[i], nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (f *fakeLedger) GetByUser(userID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeLedger) GetByBusinessAndDay(businessID string, dayStart time.Time, employeeID string) ([]models.Appointment, error) {
	dayEnd := dayStart.Add(24 * time.Hour)
	var out []models.Appointment
	for _, a := range f.appts {
		if a.BusinessID != businessID || a.Status == models.AppointmentStatusCancelled {
			continue
		}
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}
		if a.Time.Before(dayStart) || !a.Time.Before(dayEnd) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func weekdaysNineToFive() *models.WeeklySchedule {
	days := map[string]models.DaySchedule{}
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		days[d] = models.DaySchedule{Open: "09:00", Close: "17:00"}
	}
	return &models.WeeklySchedule{Days: days}
}

func newTestService(mode string) (*DefaultAvailabilityService, *fakeLedger) {
	ledger := &fakeLedger{}
	svc := &DefaultAvailabilityService{
		BusinessRepo: &fakeBusinessRepo{businesses: map[string]*models.Business{
			"biz-1": {
				ID:                  "biz-1",
				Name:                "Corte y Estilo",
				Status:              "published",
				AppointmentMode:     mode,
				SlotDurationMinutes: 30,
				Schedule:            weekdaysNineToFive(),
			},
		}},
		EmployeeRepo: &fakeEmployeeRepo{employees: map[string]*models.Employee{
			"emp-1": {ID: "emp-1", BusinessID: "biz-1", Name: "Maria", Active: true},
			"emp-2": {ID: "emp-2", BusinessID: "biz-1", Name: "Luis", Active: false},
		}},
		Ledger: ledger,
		// A Sunday, so the whole requested Monday is in the future.
		Now: func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, ledger
}

func TestGetAvailableSlotsOpenDay(t *testing.T) {
	svc, _ := newTestService(models.AppointmentModeGeneric)

	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "")
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "16:30", slots[15])
}

func TestGetAvailableSlotsExcludesBooked(t *testing.T) {
	svc, ledger := newTestService(models.AppointmentModeGeneric)
	ledger.appts = append(ledger.appts, models.Appointment{
		ID:         "appt-1",
		BusinessID: "biz-1",
		Time:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:     models.AppointmentStatusConfirmed,
	})

	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "")
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")
	assert.Contains(t, slots, "09:30")
	assert.Contains(t, slots, "10:30")
	assert.Len(t, slots, 15)
}

func TestGetAvailableSlotsCancellationFreesSlot(t *testing.T) {
	svc, ledger := newTestService(models.AppointmentModeGeneric)
	ledger.appts = append(ledger.appts, models.Appointment{
		ID:         "appt-1",
		BusinessID: "biz-1",
		Time:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:     models.AppointmentStatusCancelled,
	})

	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "")
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
}

func TestGetAvailableSlotsPerEmployeeIsolation(t *testing.T) {
	svc, ledger := newTestService(models.AppointmentModePerEmployee)
	ledger.appts = append(ledger.appts, models.Appointment{
		ID:         "appt-1",
		BusinessID: "biz-1",
		EmployeeID: "emp-other",
		Time:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:     models.AppointmentStatusConfirmed,
	})

	// Another employee's booking does not consume Maria's slot.
	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "emp-1")
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
}

func TestGetAvailableSlotsEmployeeScheduleOverridesBusiness(t *testing.T) {
	svc, _ := newTestService(models.AppointmentModePerEmployee)
	// Maria only works Monday afternoons, regardless of the business window.
	svc.EmployeeRepo.(*fakeEmployeeRepo).employees["emp-1"].Schedule = &models.WeeklySchedule{
		Days: map[string]models.DaySchedule{
			"monday": {Open: "13:00", Close: "15:00"},
		},
	}

	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "emp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"13:00", "13:30", "14:00", "14:30"}, slots)

	// On a day the employee's own schedule omits, there is nothing bookable
	// even though the business is open.
	slots, err = svc.GetAvailableSlots("biz-1", "2026-03-03", "emp-1")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailableSlotsGenericModeCountsAllAppointments(t *testing.T) {
	svc, ledger := newTestService(models.AppointmentModeGeneric)
	ledger.appts = append(ledger.appts, models.Appointment{
		ID:         "appt-1",
		BusinessID: "biz-1",
		EmployeeID: "emp-1",
		Time:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:     models.AppointmentStatusConfirmed,
	})

	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "")
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")
}

func TestGetAvailableSlotsClosedDay(t *testing.T) {
	svc, _ := newTestService(models.AppointmentModeGeneric)

	// 2026-03-07 is a Saturday, which the schedule omits.
	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-07", "")
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGetAvailableSlotsExcludesPastTimes(t *testing.T) {
	svc, _ := newTestService(models.AppointmentModeGeneric)
	svc.Now = func() time.Time { return time.Date(2026, 3, 2, 12, 10, 0, 0, time.UTC) }

	slots, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "")
	require.NoError(t, err)
	assert.NotContains(t, slots, "12:00")
	assert.Contains(t, slots, "12:30")
}

func TestGetAvailableSlotsValidationFailures(t *testing.T) {
	svc, _ := newTestService(models.AppointmentModePerEmployee)

	_, err := svc.GetAvailableSlots("nope", "2026-03-02", "")
	assert.True(t, IsValidation(err))

	_, err = svc.GetAvailableSlots("biz-1", "02/03/2026", "")
	assert.True(t, IsValidation(err))

	_, err = svc.GetAvailableSlots("biz-1", "2026-03-02", "ghost")
	assert.True(t, IsValidation(err))

	// Inactive employees are not bookable.
	_, err = svc.GetAvailableSlots("biz-1", "2026-03-02", "emp-2")
	assert.True(t, IsValidation(err))
}

func TestGetAvailableSlotsIsIdempotent(t *testing.T) {
	svc, ledger := newTestService(models.AppointmentModeGeneric)
	ledger.appts = append(ledger.appts, models.Appointment{
		ID:         "appt-1",
		BusinessID: "biz-1",
		Time:       time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		Status:     models.AppointmentStatusConfirmed,
	})

	first, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "")
	require.NoError(t, err)
	second, err := svc.GetAvailableSlots("biz-1", "2026-03-02", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSlotsViewForCoversThreeDays(t *testing.T) {
	svc, _ := newTestService(models.AppointmentModeGeneric)

	view, err := svc.SlotsViewFor("biz-1", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", view.Today.Date)
	assert.Equal(t, "2026-03-02", view.Tomorrow.Date)
	assert.Equal(t, "2026-03-03", view.DayAfter.Date)
	// Sunday is closed, the two weekdays are fully open.
	assert.Empty(t, view.Today.Slots)
	assert.Len(t, view.Tomorrow.Slots, 16)
	assert.Len(t, view.DayAfter.Slots, 16)
}

func TestSlotsViewForPropagatesValidation(t *testing.T) {
	svc, _ := newTestService(models.AppointmentModeGeneric)

	_, err := svc.SlotsViewFor("nope", "")
	assert.True(t, IsValidation(err))
}
