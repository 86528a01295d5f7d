package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/config"
	"github.com/JustinVargasQ/ProyectoBueno/models"
	"github.com/JustinVargasQ/ProyectoBueno/utils"

	"go.uber.org/zap"
)

const dispatchTimeout = 10 * time.Second

// notifyRequest is the wire payload posted to the external notifier.
type notifyRequest struct {
	Kind           string `json:"kind"`
	AppointmentID  string `json:"appointmentId"`
	BusinessID     string `json:"businessId"`
	EmployeeID     string `json:"employeeId,omitempty"`
	RecipientEmail string `json:"recipientEmail"`
	AppointmentAt  string `json:"appointmentAt"`
}

// HTTPDispatcher posts notification payloads to the configured notifier
// endpoint. With no endpoint configured it degrades to a logged no-op so the
// rest of the system keeps working in environments without a notifier.
type HTTPDispatcher struct {
	Client *http.Client
	URL    string
}

func NewHTTPDispatcher() *HTTPDispatcher {
	return &HTTPDispatcher{
		Client: &http.Client{Timeout: dispatchTimeout},
		URL:    config.AppConfig.NotifierURL,
	}
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, kind Kind, appt *models.Appointment, recipientEmail string) error {
	logger := utils.GetLogger()

	if d.URL == "" {
		logger.Info("notifier endpoint not configured, skipping dispatch",
			zap.String("kind", string(kind)),
			zap.String("appointmentID", appt.ID))
		return nil
	}
	if recipientEmail == "" {
		logger.Warn("no recipient email for notification, skipping dispatch",
			zap.String("kind", string(kind)),
			zap.String("appointmentID", appt.ID))
		return nil
	}

	body, err := json.Marshal(notifyRequest{
		Kind:           string(kind),
		AppointmentID:  appt.ID,
		BusinessID:     appt.BusinessID,
		EmployeeID:     appt.EmployeeID,
		RecipientEmail: recipientEmail,
		AppointmentAt:  appt.Time.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach notifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notifier rejected dispatch with status %d", resp.StatusCode)
	}

	logger.Info("notification dispatched",
		zap.String("kind", string(kind)),
		zap.String("appointmentID", appt.ID))
	return nil
}
