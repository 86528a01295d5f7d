// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/config"
	"github.com/JustinVargasQ/ProyectoBueno/cron"
	"github.com/JustinVargasQ/ProyectoBueno/database"
	appointmentRepoPkg "github.com/JustinVargasQ/ProyectoBueno/database/repository/appointment"
	businessRepoPkg "github.com/JustinVargasQ/ProyectoBueno/database/repository/business"
	employeeRepoPkg "github.com/JustinVargasQ/ProyectoBueno/database/repository/employee"
	"github.com/JustinVargasQ/ProyectoBueno/handlers"
	"github.com/JustinVargasQ/ProyectoBueno/routes"
	"github.com/JustinVargasQ/ProyectoBueno/services/assistant"
	"github.com/JustinVargasQ/ProyectoBueno/services/availability"
	"github.com/JustinVargasQ/ProyectoBueno/services/notification"
	"github.com/JustinVargasQ/ProyectoBueno/services/tasks"
	"github.com/JustinVargasQ/ProyectoBueno/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	businessRepo := businessRepoPkg.NewMongoBusinessRepo()
	employeeRepo := employeeRepoPkg.NewMongoEmployeeRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		BusinessRepo: businessRepo,
		EmployeeRepo: employeeRepo,
		Ledger:       appointmentRepo,
	}

	engine, err := assistant.NewGeminiEngine(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize dialogue engine: %v", err)
	}

	profileLoader := assistant.NewCachedProfileLoader(
		businessRepo,
		employeeRepo,
		utils.GetCacheClient(),
		10*time.Minute,
	)

	enqueuer := tasks.NewAsynqEnqueuer()

	chatService := &assistant.DefaultChatService{
		Engine:          engine,
		Profiles:        profileLoader,
		Availability:    availabilityService,
		Ledger:          appointmentRepo,
		Tasks:           enqueuer,
		DialogueTimeout: time.Duration(config.AppConfig.DialogueTimeoutSeconds) * time.Second,
	}

	searchService := &assistant.DefaultSearchService{
		Engine:       engine,
		BusinessRepo: businessRepo,
	}

	dispatcher := notification.NewHTTPDispatcher()
	cron.InitNotificationWorker(appointmentRepo, dispatcher)

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient()}, database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		BusinessRepo:    businessRepo,
		EmployeeRepo:    employeeRepo,
		AppointmentRepo: appointmentRepo,
		Availability:    availabilityService,
		Chat:            chatService,
		Search:          searchService,

		// Chatbot endpoints.
		ChatHandler: handlers.ChatHandler(chatService),

		// Business endpoints.
		GetBusinessHandler:          handlers.GetBusinessHandler(businessRepo),
		ListBusinessesHandler:       handlers.ListBusinessesHandler(businessRepo),
		GetAvailableSlotsHandler:    handlers.GetAvailableSlotsHandler(availabilityService),
		GetBusinessEmployeesHandler: handlers.GetBusinessEmployeesHandler(employeeRepo),

		// Appointment endpoints.
		ListMyAppointmentsHandler: handlers.ListMyAppointmentsHandler(appointmentRepo),
		CancelAppointmentHandler:  handlers.CancelAppointmentHandler(appointmentRepo),
		GetReceiptHandler:         handlers.GetReceiptHandler(appointmentRepo, businessRepo, employeeRepo),

		// Discovery endpoints.
		SearchAssistantHandler: handlers.SearchAssistantHandler(searchService),

		// Ops endpoints.
		HealthHandler: handlers.HealthHandler(),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
