package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/config"
	appointmentRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	"github.com/JustinVargasQ/ProyectoBueno/models"
	"github.com/JustinVargasQ/ProyectoBueno/services/notification"
	"github.com/JustinVargasQ/ProyectoBueno/services/tasks"
	"github.com/JustinVargasQ/ProyectoBueno/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the async worker in the background. It drains
// the confirmation and reminder queues and hands each task to the dispatcher.
func InitNotificationWorker(ledger appointmentRepo.AppointmentRepository, dispatcher notification.Dispatcher) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationSend, handleTask(ledger, dispatcher, notification.KindConfirmation))
	mux.HandleFunc(tasks.TypeReminderSend, handleTask(ledger, dispatcher, notification.KindReminder))

	// Delivery is best effort: a dead task queue must never take the booking
	// path down with it, so after the retries run out the worker gives up and
	// the HTTP service keeps serving.
	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("notification worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Error("notification worker gave up after max retries, notifications disabled")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleTask re-reads the appointment before dispatching so a cancellation
// between enqueue and fire suppresses the message.
func handleTask(ledger appointmentRepo.AppointmentRepository, dispatcher notification.Dispatcher, kind notification.Kind) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p tasks.NotifyPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid notification payload", zap.Error(err))
			return err
		}

		appt, err := ledger.GetByID(p.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				logger.Warn("appointment gone before dispatch, dropping task",
					zap.String("appointmentID", p.AppointmentID))
				return nil
			}
			return err
		}
		if appt.Status != models.AppointmentStatusConfirmed {
			logger.Info("appointment no longer confirmed, dropping task",
				zap.String("appointmentID", p.AppointmentID),
				zap.String("status", appt.Status))
			return nil
		}

		if err := dispatcher.Dispatch(ctx, kind, appt, p.RecipientEmail); err != nil {
			logger.Error("notification dispatch failed",
				zap.String("kind", string(kind)),
				zap.String("appointmentID", p.AppointmentID),
				zap.Error(err))
			return err
		}
		return nil
	}
}
