package employeeRepo

import (
	"github.com/JustinVargasQ/ProyectoBueno/models"
)

// EmployeeRepository defines methods for employee data access.
type EmployeeRepository interface {
	// GetByID retrieves an employee by its unique ID.
	GetByID(id string) (*models.Employee, error)
	// GetActiveByBusiness retrieves the active employees of a business.
	GetActiveByBusiness(businessID string) ([]models.Employee, error)
}
