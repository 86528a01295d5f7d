package businessRepo

import (
	"github.com/JustinVargasQ/ProyectoBueno/models"
)

// BusinessRepository defines methods for business data access.
type BusinessRepository interface {
	// GetByID retrieves a business by its unique ID.
	GetByID(id string) (*models.Business, error)
	// GetPublished retrieves all published businesses.
	GetPublished() ([]models.Business, error)
}
