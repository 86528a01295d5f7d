// File: services/assistant/chat.go
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	appointmentRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	"github.com/JustinVargasQ/ProyectoBueno/models"
	"github.com/JustinVargasQ/ProyectoBueno/services/availability"
	"github.com/JustinVargasQ/ProyectoBueno/services/tasks"
	"github.com/JustinVargasQ/ProyectoBueno/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reminderLeadTime = 24 * time.Hour

// Recoverable replies returned instead of internal errors. The conversation
// always continues from these.
const (
	msgRetryBooking = "Sorry, there was a problem confirming your appointment in the system. " +
		"Please try again."
	msgSlotTaken = "I'm sorry, that time is no longer available. " +
		"Here is the updated availability — would another time work for you?"
	msgUnknownEmployee = "I couldn't match that employee to our current team. " +
		"Could you tell me again who you would like to book with?"
)

// DefaultChatService is the conversational booking orchestrator. It holds no
// per-conversation state: every turn is fully re-derived from the resent
// history, so identical input yields identical derivation.
type DefaultChatService struct {
	Engine       DialogueEngine
	Profiles     ProfileLoader
	Availability availability.Service
	Ledger       appointmentRepo.AppointmentRepository
	Tasks        tasks.Enqueuer

	// DialogueTimeout bounds the remote engine call; zero means 20s.
	DialogueTimeout time.Duration
}

func (s *DefaultChatService) timeout() time.Duration {
	if s.DialogueTimeout > 0 {
		return s.DialogueTimeout
	}
	return 20 * time.Second
}

// ProcessTurn runs a single conversational turn end to end.
func (s *DefaultChatService) ProcessTurn(ctx context.Context, userID, userEmail string, req models.ChatRequest) (*models.ChatResponse, error) {
	logger := utils.GetLogger()

	profile, err := s.Profiles.Load(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	business := profile.Business

	selected := resolveEmployeeFromConversation(profile.Employees, req)

	// Availability context is withheld until an employee is resolved in
	// per_employee mode; the engine is instructed to ask for one first.
	var view *models.SlotsView
	if !business.PerEmployee() || selected != nil {
		employeeID := ""
		if selected != nil {
			employeeID = selected.ID
		}
		view, err = s.Availability.SlotsViewFor(req.BusinessID, employeeID)
		if err != nil {
			return nil, err
		}
	}

	systemContext := BuildSystemContext(business, profile.Employees, selected, view)

	engineCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	reply, err := s.Engine.SendTurn(engineCtx, systemContext, req.History, req.Message)
	if err != nil {
		if IsExternal(err) {
			return nil, err
		}
		return nil, &ExternalServiceError{Op: "dialogue engine", Err: err}
	}

	cmd, found, parseErr := TryParseBooking(reply)
	if !found {
		return &models.ChatResponse{Response: reply, SlotsView: view}, nil
	}
	if parseErr != nil {
		logger.Warn("booking command failed strict parsing",
			zap.String("businessID", req.BusinessID), zap.Error(parseErr))
		return &models.ChatResponse{Response: msgRetryBooking, SlotsView: view}, nil
	}

	return s.commitBooking(ctx, business, profile.Employees, cmd, userID, userEmail)
}

// commitBooking resolves the command's employee, commits against the ledger
// and builds the confirmation reply. Conflicts and resolution failures come
// back as recoverable conversational messages, never as raw errors.
func (s *DefaultChatService) commitBooking(
	ctx context.Context,
	business *models.Business,
	employees []models.Employee,
	cmd *BookingCommand,
	userID, userEmail string,
) (*models.ChatResponse, error) {
	logger := utils.GetLogger()

	var employeeID, employeeName string
	if business.PerEmployee() {
		employee := matchEmployeeByName(employees, cmd.EmployeeName)
		if employee == nil {
			logger.Warn("booking command employee resolution failed",
				zap.String("businessID", business.ID),
				zap.Error(&ResolutionError{Name: cmd.EmployeeName}))
			return &models.ChatResponse{Response: msgUnknownEmployee}, nil
		}
		employeeID = employee.ID
		employeeName = employee.Name
	}

	appt := &models.Appointment{
		ID:         uuid.New().String(),
		BusinessID: business.ID,
		UserID:     userID,
		EmployeeID: employeeID,
		Time:       cmd.When,
	}

	if err := s.Ledger.Commit(ctx, appt); err != nil {
		if appointmentRepo.IsConflict(err) {
			view, viewErr := s.Availability.SlotsViewFor(business.ID, employeeID)
			if viewErr != nil {
				logger.Warn("failed to refresh slots after conflict",
					zap.String("businessID", business.ID), zap.Error(viewErr))
				view = nil
			}
			return &models.ChatResponse{Response: msgSlotTaken, SlotsView: view}, nil
		}
		// A failed write is a failed booking; it must never read as success.
		return nil, fmt.Errorf("failed to commit appointment: %w", err)
	}

	recipient := cmd.Email
	if recipient == "" {
		recipient = userEmail
	}
	s.handOffNotifications(appt, recipient)

	var reply strings.Builder
	fmt.Fprintf(&reply, "Great! Your appointment is confirmed for %s at %s", cmd.Date, cmd.Time)
	if employeeName != "" {
		fmt.Fprintf(&reply, " with %s", employeeName)
	}
	if recipient != "" {
		fmt.Fprintf(&reply, ". We've sent a confirmation to %s with the details", recipient)
	}
	reply.WriteString(". You can manage all your appointments from the 'My Appointments' section.")

	return &models.ChatResponse{
		Response:   reply.String(),
		Action:     models.ActionBookingSuccess,
		ReceiptRef: fmt.Sprintf("/api/appointments/%s/receipt", appt.ID),
	}, nil
}

// handOffNotifications enqueues the confirmation and reminder tasks. Delivery
// is best effort: failures are logged and never surface to the user or roll
// back the committed appointment.
func (s *DefaultChatService) handOffNotifications(appt *models.Appointment, recipient string) {
	if s.Tasks == nil {
		return
	}
	logger := utils.GetLogger()
	payload := tasks.NotifyPayload{AppointmentID: appt.ID, RecipientEmail: recipient}

	if err := s.Tasks.EnqueueNotification(payload); err != nil {
		logger.Error("failed to enqueue confirmation notification",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
	if fireAt := appt.Time.Add(-reminderLeadTime); fireAt.After(time.Now()) {
		if err := s.Tasks.EnqueueReminder(payload, fireAt); err != nil {
			logger.Error("failed to enqueue reminder",
				zap.String("appointmentID", appt.ID), zap.Error(err))
		}
	}
}

// resolveEmployeeFromConversation re-derives the selected employee for the
// turn: the new message plus every historical message is scanned for an
// active employee's name, case-insensitive, roster order, first match wins.
// The same history always yields the same selection.
func resolveEmployeeFromConversation(employees []models.Employee, req models.ChatRequest) *models.Employee {
	if len(employees) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(req.Message)
	for _, msg := range req.History {
		sb.WriteString(" ")
		sb.WriteString(msg.Text)
	}
	conversation := strings.ToLower(sb.String())

	for i := range employees {
		name := strings.ToLower(employees[i].Name)
		if name != "" && strings.Contains(conversation, name) {
			return &employees[i]
		}
	}
	return nil
}

// matchEmployeeByName resolves a command's empleado field against the active
// roster: case-insensitive exact match, no fallback.
func matchEmployeeByName(employees []models.Employee, name string) *models.Employee {
	if name == "" {
		return nil
	}
	for i := range employees {
		if strings.EqualFold(employees[i].Name, name) {
			return &employees[i]
		}
	}
	return nil
}
