package tasks

import (
	"fmt"
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/config"

	"github.com/hibiken/asynq"
)

// Enqueuer hands notification work off the request path. The booking
// transaction never waits on it.
type Enqueuer interface {
	EnqueueNotification(payload NotifyPayload) error
	EnqueueReminder(payload NotifyPayload, fireAt time.Time) error
}

// AsynqEnqueuer implements Enqueuer on the shared Redis task queue.
type AsynqEnqueuer struct {
	client *asynq.Client
}

// NewAsynqEnqueuer creates the production enqueuer from AppConfig.
func NewAsynqEnqueuer() *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskDB,
		}),
	}
}

// EnqueueNotification queues the confirmation hand-off for immediate processing.
func (e *AsynqEnqueuer) EnqueueNotification(payload NotifyPayload) error {
	task, err := NewNotificationTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	if _, err := e.client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}
	return nil
}

// EnqueueReminder queues a reminder to be processed at fireAt.
func (e *AsynqEnqueuer) EnqueueReminder(payload NotifyPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := e.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}
