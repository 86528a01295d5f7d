// File: handlers/bundle.go
package handlers

import (
	appointmentRepoPkg "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	businessRepoPkg "github.com/JustinVargasQ/ProyectoBueno/database/repository/business"
	employeeRepoPkg "github.com/JustinVargasQ/ProyectoBueno/database/repository/employee"
	"github.com/JustinVargasQ/ProyectoBueno/services/assistant"
	"github.com/JustinVargasQ/ProyectoBueno/services/availability"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and their dependencies.
type HandlerBundle struct {
	BusinessRepo    businessRepoPkg.BusinessRepository
	EmployeeRepo    employeeRepoPkg.EmployeeRepository
	AppointmentRepo appointmentRepoPkg.AppointmentRepository
	Availability    availability.Service
	Chat            assistant.ChatService
	Search          assistant.SearchService

	// Chatbot endpoints
	ChatHandler gin.HandlerFunc

	// Business endpoints
	GetBusinessHandler          gin.HandlerFunc
	ListBusinessesHandler       gin.HandlerFunc
	GetAvailableSlotsHandler    gin.HandlerFunc
	GetBusinessEmployeesHandler gin.HandlerFunc

	// Appointment endpoints
	ListMyAppointmentsHandler gin.HandlerFunc
	CancelAppointmentHandler  gin.HandlerFunc
	GetReceiptHandler         gin.HandlerFunc

	// Discovery endpoints
	SearchAssistantHandler gin.HandlerFunc

	// Ops endpoints
	HealthHandler gin.HandlerFunc
}
