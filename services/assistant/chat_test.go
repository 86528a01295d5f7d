package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	appointmentRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	"github.com/JustinVargasQ/ProyectoBueno/models"
	"github.com/JustinVargasQ/ProyectoBueno/services/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedEngine struct {
	reply         string
	err           error
	systemContext string
}

func (e *scriptedEngine) SendTurn(ctx context.Context, systemContext string, history []models.ChatMessage, message string) (string, error) {
	e.systemContext = systemContext
	if e.err != nil {
		return "", e.err
	}
	return e.reply, nil
}

type staticProfiles struct {
	profile *BusinessProfile
	err     error
}

func (p *staticProfiles) Load(ctx context.Context, businessID string) (*BusinessProfile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

type staticAvailability struct {
	view       *models.SlotsView
	calls      int
	employeeID string
}

func (s *staticAvailability) GetAvailableSlots(businessID, date, employeeID string) ([]string, error) {
	return nil, nil
}

func (s *staticAvailability) SlotsViewFor(businessID, employeeID string) (*models.SlotsView, error) {
	s.calls++
	s.employeeID = employeeID
	return s.view, nil
}

// memLedger enforces the confirmed-slot uniqueness key in memory, so the
// single-winner behavior under concurrent commits can be exercised directly.
type memLedger struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func newMemLedger() *memLedger {
	return &memLedger{appts: make(map[string]models.Appointment)}
}

func slotKey(businessID, employeeID string, when time.Time) string {
	return businessID + "|" + employeeID + "|" + when.Format(time.RFC3339)
}

func (l *memLedger) Commit(ctx context.Context, appt *models.Appointment) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := slotKey(appt.BusinessID, appt.EmployeeID, appt.Time)
	for _, existing := range l.appts {
		if existing.Status == models.AppointmentStatusConfirmed &&
			slotKey(existing.BusinessID, existing.EmployeeID, existing.Time) == key {
			return &appointmentRepo.ConflictError{
				BusinessID: appt.BusinessID,
				EmployeeID: appt.EmployeeID,
				When:       appt.Time,
			}
		}
	}
	appt.Status = models.AppointmentStatusConfirmed
	l.appts[appt.ID] = *appt
	return nil
}

func (l *memLedger) UpdateStatus(id string, status string) (*models.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	a.Status = status
	l.appts[id] = a
	return &a, nil
}

func (l *memLedger) GetByID(id string) (*models.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &a, nil
}

func (l *memLedger) GetByUser(userID string) ([]models.Appointment, error) {
	return nil, nil
}

func (l *memLedger) GetByBusinessAndDay(businessID string, dayStart time.Time, employeeID string) ([]models.Appointment, error) {
	return nil, nil
}

type recordingEnqueuer struct {
	mu            sync.Mutex
	notifications []tasks.NotifyPayload
	reminders     []tasks.NotifyPayload
	fireAts       []time.Time
	err           error
}

func (r *recordingEnqueuer) EnqueueNotification(payload tasks.NotifyPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.notifications = append(r.notifications, payload)
	return nil
}

func (r *recordingEnqueuer) EnqueueReminder(payload tasks.NotifyPayload, fireAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.reminders = append(r.reminders, payload)
	r.fireAts = append(r.fireAts, fireAt)
	return nil
}

func genericBusiness() *models.Business {
	return &models.Business{
		ID:              "biz-1",
		Name:            "Clinica Dental Sonrisa",
		Status:          "published",
		AppointmentMode: models.AppointmentModeGeneric,
	}
}

func perEmployeeBusiness() *models.Business {
	b := genericBusiness()
	b.AppointmentMode = models.AppointmentModePerEmployee
	return b
}

func roster() []models.Employee {
	return []models.Employee{
		{ID: "emp-1", BusinessID: "biz-1", Name: "Maria", Active: true},
		{ID: "emp-2", BusinessID: "biz-1", Name: "Luis", Active: true},
	}
}

func emptyView() *models.SlotsView {
	return &models.SlotsView{
		Today:    models.DaySlots{Date: "2026-03-01", Slots: []string{}},
		Tomorrow: models.DaySlots{Date: "2026-03-02", Slots: []string{"10:00", "10:30"}},
		DayAfter: models.DaySlots{Date: "2026-03-03", Slots: []string{}},
	}
}

func newChatService(engine *scriptedEngine, business *models.Business, employees []models.Employee, ledger *memLedger) (*DefaultChatService, *staticAvailability) {
	avail := &staticAvailability{view: emptyView()}
	svc := &DefaultChatService{
		Engine:       engine,
		Profiles:     &staticProfiles{profile: &BusinessProfile{Business: business, Employees: employees}},
		Availability: avail,
		Ledger:       ledger,
	}
	return svc, avail
}

func TestProcessTurnPlainReplyAttachesSlots(t *testing.T) {
	engine := &scriptedEngine{reply: "What time works for you?"}
	svc, avail := newChatService(engine, genericBusiness(), nil, newMemLedger())

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "ana@example.com", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "I'd like an appointment",
	})
	require.NoError(t, err)
	assert.Equal(t, "What time works for you?", resp.Response)
	assert.Empty(t, resp.Action)
	require.NotNil(t, resp.SlotsView)
	assert.Equal(t, 1, avail.calls)
}

func TestProcessTurnPerEmployeeWithholdsSlotsUntilSelection(t *testing.T) {
	engine := &scriptedEngine{reply: "Who would you like to book with, Maria or Luis?"}
	svc, avail := newChatService(engine, perEmployeeBusiness(), roster(), newMemLedger())

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "I need a haircut",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.SlotsView)
	assert.Zero(t, avail.calls)
	assert.Contains(t, engine.systemContext, "must first choose an employee")
}

func TestProcessTurnResolvesEmployeeFromHistory(t *testing.T) {
	engine := &scriptedEngine{reply: "Maria has these times available."}
	svc, avail := newChatService(engine, perEmployeeBusiness(), roster(), newMemLedger())

	_, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
		BusinessID: "biz-1",
		History: []models.ChatMessage{
			{Role: "user", Text: "I want to book with maria please"},
			{Role: "model", Text: "Of course!"},
		},
		Message: "tomorrow if possible",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, avail.calls)
	assert.Equal(t, "emp-1", avail.employeeID)
	assert.Contains(t, engine.systemContext, "for Maria")
}

func TestProcessTurnCommitsBooking(t *testing.T) {
	engine := &scriptedEngine{
		reply: `[BOOK_APPOINTMENT:fecha="2026-03-02",hora="10:30",empleado="Maria",email="ana@example.com"]`,
	}
	ledger := newMemLedger()
	svc, _ := newChatService(engine, perEmployeeBusiness(), roster(), ledger)

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "fallback@example.com", models.ChatRequest{
		BusinessID: "biz-1",
		History:    []models.ChatMessage{{Role: "user", Text: "with Maria"}},
		Message:    "yes, confirm it",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ActionBookingSuccess, resp.Action)
	assert.True(t, strings.HasPrefix(resp.ReceiptRef, "/api/appointments/"))
	assert.True(t, strings.HasSuffix(resp.ReceiptRef, "/receipt"))
	assert.Contains(t, resp.Response, "2026-03-02")
	assert.Contains(t, resp.Response, "10:30")
	assert.Contains(t, resp.Response, "Maria")

	require.Len(t, ledger.appts, 1)
	for _, a := range ledger.appts {
		assert.Equal(t, "biz-1", a.BusinessID)
		assert.Equal(t, "user-1", a.UserID)
		assert.Equal(t, "emp-1", a.EmployeeID)
		assert.Equal(t, models.AppointmentStatusConfirmed, a.Status)
		assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.Local), a.Time)
	}
}

func TestProcessTurnHandsOffNotifications(t *testing.T) {
	engine := &scriptedEngine{
		reply: `[BOOK_APPOINTMENT:fecha="2030-03-04",hora="10:30"]`,
	}
	svc, _ := newChatService(engine, genericBusiness(), nil, newMemLedger())
	enqueuer := &recordingEnqueuer{}
	svc.Tasks = enqueuer

	_, err := svc.ProcessTurn(context.Background(), "user-1", "fallback@example.com", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "yes",
	})
	require.NoError(t, err)

	require.Len(t, enqueuer.notifications, 1)
	// Without an explicit email in the command, the session email is used.
	assert.Equal(t, "fallback@example.com", enqueuer.notifications[0].RecipientEmail)
	require.Len(t, enqueuer.reminders, 1)
	expectedFire := time.Date(2030, 3, 4, 10, 30, 0, 0, time.Local).Add(-24 * time.Hour)
	assert.Equal(t, expectedFire, enqueuer.fireAts[0])
}

func TestProcessTurnCommandEmailOverridesSessionEmail(t *testing.T) {
	engine := &scriptedEngine{
		reply: `[BOOK_APPOINTMENT:fecha="2030-03-04",hora="10:30",email="explicit@example.com"]`,
	}
	svc, _ := newChatService(engine, genericBusiness(), nil, newMemLedger())
	enqueuer := &recordingEnqueuer{}
	svc.Tasks = enqueuer

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "fallback@example.com", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "yes",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "explicit@example.com")
	require.Len(t, enqueuer.notifications, 1)
	assert.Equal(t, "explicit@example.com", enqueuer.notifications[0].RecipientEmail)
}

func TestProcessTurnEnqueueFailureDoesNotFailBooking(t *testing.T) {
	engine := &scriptedEngine{
		reply: `[BOOK_APPOINTMENT:fecha="2030-03-04",hora="10:30"]`,
	}
	ledger := newMemLedger()
	svc, _ := newChatService(engine, genericBusiness(), nil, ledger)
	svc.Tasks = &recordingEnqueuer{err: errors.New("queue down")}

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "yes",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ActionBookingSuccess, resp.Action)
	assert.Len(t, ledger.appts, 1)
}

func TestProcessTurnConflictIsRecoverable(t *testing.T) {
	engine := &scriptedEngine{
		reply: `[BOOK_APPOINTMENT:fecha="2026-03-02",hora="10:30"]`,
	}
	ledger := newMemLedger()
	svc, avail := newChatService(engine, genericBusiness(), nil, ledger)

	// Another user already holds the slot.
	require.NoError(t, ledger.Commit(context.Background(), &models.Appointment{
		ID:         "appt-existing",
		BusinessID: "biz-1",
		UserID:     "user-2",
		Time:       time.Date(2026, 3, 2, 10, 30, 0, 0, time.Local),
	}))
	avail.calls = 0

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "yes, book it",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Action)
	assert.Contains(t, resp.Response, "no longer available")
	assert.NotNil(t, resp.SlotsView)
	assert.Len(t, ledger.appts, 1)
}

func TestProcessTurnMalformedCommandAsksForRetry(t *testing.T) {
	engine := &scriptedEngine{
		reply: `[BOOK_APPOINTMENT:fecha="2026-03-02",hora="10:0"]`,
	}
	ledger := newMemLedger()
	svc, _ := newChatService(engine, genericBusiness(), nil, ledger)

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "yes",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Action)
	assert.Contains(t, resp.Response, "try again")
	assert.Empty(t, ledger.appts)
}

func TestProcessTurnUnknownEmployeeInCommand(t *testing.T) {
	engine := &scriptedEngine{
		reply: `[BOOK_APPOINTMENT:fecha="2026-03-02",hora="10:30",empleado="Nadie"]`,
	}
	ledger := newMemLedger()
	svc, _ := newChatService(engine, perEmployeeBusiness(), roster(), ledger)

	resp, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
		BusinessID: "biz-1",
		History:    []models.ChatMessage{{Role: "user", Text: "with Maria"}},
		Message:    "yes",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Action)
	assert.Empty(t, ledger.appts)
}

func TestProcessTurnEngineFailurePropagates(t *testing.T) {
	engine := &scriptedEngine{err: errors.New("connection reset")}
	svc, _ := newChatService(engine, genericBusiness(), nil, newMemLedger())

	_, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
		BusinessID: "biz-1",
		Message:    "hello",
	})
	require.Error(t, err)
	assert.True(t, IsExternal(err))
}

func TestProcessTurnConcurrentCommitsHaveOneWinner(t *testing.T) {
	ledger := newMemLedger()
	const attempts = 8

	var wg sync.WaitGroup
	results := make([]*models.ChatResponse, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engine := &scriptedEngine{
				reply: `[BOOK_APPOINTMENT:fecha="2026-03-02",hora="10:30"]`,
			}
			svc, _ := newChatService(engine, genericBusiness(), nil, ledger)
			resp, err := svc.ProcessTurn(context.Background(), "user-1", "", models.ChatRequest{
				BusinessID: "biz-1",
				Message:    "yes, book it",
			})
			require.NoError(t, err)
			results[i] = resp
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, resp := range results {
		if resp.Action == models.ActionBookingSuccess {
			winners++
		} else {
			assert.Contains(t, resp.Response, "no longer available")
		}
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, ledger.appts, 1)
}
