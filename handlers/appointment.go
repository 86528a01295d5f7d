// File: handlers/appointment.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	appointmentRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	businessRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/business"
	employeeRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/employee"
	"github.com/JustinVargasQ/ProyectoBueno/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListMyAppointmentsHandler returns the calling user's appointments, newest
// first.
func ListMyAppointmentsHandler(repo appointmentRepo.AppointmentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		appointments, err := repo.GetByUser(c.GetString("userID"))
		if err != nil {
			logger.Error("failed to list appointments", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
			return
		}
		c.JSON(http.StatusOK, appointments)
	}
}

// CancelAppointmentHandler cancels a confirmed appointment. Only the owner
// may cancel, and only confirmed appointments can transition.
func CancelAppointmentHandler(repo appointmentRepo.AppointmentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		id := c.Param("id")

		existing, err := repo.GetByID(id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
				return
			}
			logger.Error("failed to fetch appointment", zap.String("appointmentID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch appointment"})
			return
		}
		if existing.UserID != c.GetString("userID") {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only cancel your own appointments"})
			return
		}

		cancelled, err := repo.UpdateStatus(id, models.AppointmentStatusCancelled)
		if err != nil {
			switch {
			case errors.Is(err, appointmentRepo.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
			case errors.Is(err, appointmentRepo.ErrInvalidTransition):
				c.JSON(http.StatusConflict, gin.H{"error": "appointment is not in a cancellable state"})
			default:
				logger.Error("failed to cancel appointment", zap.String("appointmentID", id), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel appointment"})
			}
			return
		}
		c.JSON(http.StatusOK, cancelled)
	}
}

// GetReceiptHandler returns a booking receipt for the owner of the
// appointment, with the business and employee names resolved.
func GetReceiptHandler(
	appts appointmentRepo.AppointmentRepository,
	businesses businessRepo.BusinessRepository,
	employees employeeRepo.EmployeeRepository,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		id := c.Param("id")

		appt, err := appts.GetByID(id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
				return
			}
			logger.Error("failed to fetch appointment", zap.String("appointmentID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch appointment"})
			return
		}
		if appt.UserID != c.GetString("userID") {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only view your own receipts"})
			return
		}

		receipt := gin.H{
			"appointmentId": appt.ID,
			"status":        appt.Status,
			"date":          appt.Time.Format("2006-01-02"),
			"time":          appt.Time.Format("15:04"),
			"bookedAt":      appt.CreatedAt.Format(time.RFC3339),
		}
		if business, err := businesses.GetByID(appt.BusinessID); err == nil && business != nil {
			receipt["businessName"] = business.Name
			receipt["businessAddress"] = business.Address
		}
		if appt.EmployeeID != "" {
			if employee, err := employees.GetByID(appt.EmployeeID); err == nil && employee != nil {
				receipt["employeeName"] = employee.Name
			}
		}
		c.JSON(http.StatusOK, receipt)
	}
}
