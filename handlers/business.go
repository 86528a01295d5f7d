// File: handlers/business.go
package handlers

import (
	"net/http"

	businessRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/business"
	employeeRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/employee"
	"github.com/JustinVargasQ/ProyectoBueno/services/availability"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListBusinessesHandler returns the published business catalogue.
func ListBusinessesHandler(repo businessRepo.BusinessRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		businesses, err := repo.GetPublished()
		if err != nil {
			logger.Error("failed to list businesses", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list businesses"})
			return
		}
		c.JSON(http.StatusOK, businesses)
	}
}

// GetBusinessHandler returns a single business profile.
func GetBusinessHandler(repo businessRepo.BusinessRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		business, err := repo.GetByID(c.Param("id"))
		if err != nil {
			logger.Error("failed to fetch business", zap.String("businessID", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch business"})
			return
		}
		if business == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		c.JSON(http.StatusOK, business)
	}
}

// GetBusinessEmployeesHandler returns a business's active employees.
func GetBusinessEmployeesHandler(repo employeeRepo.EmployeeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		employees, err := repo.GetActiveByBusiness(c.Param("id"))
		if err != nil {
			logger.Error("failed to list employees", zap.String("businessID", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list employees"})
			return
		}
		c.JSON(http.StatusOK, employees)
	}
}

// GetAvailableSlotsHandler returns bookable slot starts for a business on a
// given date. Query params: date=YYYY-MM-DD (required), employee_id (optional).
func GetAvailableSlotsHandler(svc availability.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		date := c.Query("date")
		if date == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
			return
		}

		slots, err := svc.GetAvailableSlots(c.Param("id"), date, c.Query("employee_id"))
		if err != nil {
			if availability.IsValidation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Error("failed to compute availability",
				zap.String("businessID", c.Param("id")), zap.String("date", date), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute availability"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
	}
}
