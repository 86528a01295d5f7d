package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeNotificationSend = "notification:send"
	TypeReminderSend     = "reminder:send"
)

// NotifyPayload identifies the appointment a task is about. The worker
// re-reads the appointment from the ledger at processing time, so a booking
// cancelled between enqueue and fire is simply skipped.
type NotifyPayload struct {
	AppointmentID  string `json:"appointmentId"`
	RecipientEmail string `json:"recipientEmail"`
}

// NewNotificationTask builds the immediate confirmation hand-off task.
func NewNotificationTask(payload NotifyPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationSend, b), nil
}

// NewReminderTask builds a reminder task scheduled for fireAt.
func NewReminderTask(payload NotifyPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
