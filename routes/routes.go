package routes

import (
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/handlers"
	"github.com/JustinVargasQ/ProyectoBueno/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatbotRoutes registers the conversational booking endpoint.
func RegisterChatbotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chatbot")
	{
		api.Use(middleware.RequireIdentity())
		api.POST("/chat", hb.ChatHandler)
	}
}

// RegisterBusinessRoutes registers public business catalogue endpoints.
func RegisterBusinessRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/businesses")
	{
		api.GET("", hb.ListBusinessesHandler)
		api.GET("/:id", hb.GetBusinessHandler)
		api.GET("/:id/available-slots", hb.GetAvailableSlotsHandler)
		api.GET("/:id/employees", hb.GetBusinessEmployeesHandler)
	}
}

// RegisterAppointmentRoutes registers the user's appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.RequireIdentity())
		api.GET("", hb.ListMyAppointmentsHandler)
		api.PUT("/:id/cancel", hb.CancelAppointmentHandler)
		api.GET("/:id/receipt", hb.GetReceiptHandler)
	}
}

// RegisterAssistantRoutes registers the discovery assistant endpoint.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assistant")
	{
		api.Use(middleware.RequireIdentity())
		api.POST("/search", hb.SearchAssistantHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-User-ID", "X-User-Email"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterChatbotRoutes(r, hb)
	RegisterBusinessRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterAssistantRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
