package routes

import (
	"payaso-portal/internal/adapters/http/handlers"
	"payaso-portal/internal/adapters/http/middleware"
	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Services groups the services the HTTP layer calls
type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Events     *services.EventService
	Portal     *services.PortalService
	Payments   *services.PaymentService
	Graduation *services.GraduationService
	Locations  *services.LocationService
	Chat       *services.ChatService
	Dashboard  *services.DashboardService
}

// NewServices builds every service on top of one store
func NewServices(store *repositories.Store, cfg *config.Config) *Services {
	events := services.NewEventService(store)
	graduation := services.NewGraduationService(store, events)

	return &Services{
		Auth:       services.NewAuthService(store, cfg),
		Users:      services.NewUserService(store),
		Events:     events,
		Portal:     services.NewPortalService(store, events, graduation),
		Payments:   services.NewPaymentService(store, cfg),
		Graduation: graduation,
		Locations:  services.NewLocationService(store),
		Chat:       services.NewChatService(store, events),
		Dashboard:  services.NewDashboardService(store, events, graduation),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	userHandler := handlers.NewUserHandler(svc.Users)
	eventHandler := handlers.NewEventHandler(svc.Events, svc.Portal)
	portalHandler := handlers.NewPortalHandler(svc.Portal)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments)
	graduationHandler := handlers.NewGraduationHandler(svc.Graduation)
	locationHandler := handlers.NewLocationHandler(svc.Locations)
	messageHandler := handlers.NewMessageHandler(svc.Chat)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	setupAuthRoutes(apiV1.Group("/auth", middleware.NoStore()), authHandler, cfg)

	// Everything below requires a valid token
	auth := middleware.AuthMiddleware(cfg)

	setupProfileRoutes(apiV1.Group("/profile", auth), userHandler)
	setupPortalRoutes(apiV1.Group("/portal", auth, middleware.NoStore()), portalHandler)
	setupEventRoutes(apiV1.Group("/events", auth), eventHandler, messageHandler)
	setupMessageRoutes(apiV1.Group("/messages", auth), messageHandler)
	setupPaymentRoutes(apiV1.Group("/payments", auth), paymentHandler)
	setupGraduationRoutes(apiV1.Group("/graduation", auth), graduationHandler)
	setupLocationRoutes(apiV1.Group("/locations", auth), locationHandler)
	setupDashboardRoutes(apiV1.Group("/dashboard", auth), dashboardHandler)
	setupUserRoutes(apiV1.Group("/users", auth, middleware.StaffOnly()), userHandler)

	// Treasury (Staff only)
	apiV1.Get("/treasury", auth, middleware.StaffOnly(), paymentHandler.Treasury)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Put("/password", middleware.AuthMiddleware(cfg), middleware.StrictRateLimiter(), handler.ChangePassword)
	router.Post("/switch-role", middleware.AuthMiddleware(cfg), handler.SwitchRole)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Put("/", handler.UpdateProfile)
}

// setupPortalRoutes configures the snapshot routes
func setupPortalRoutes(router fiber.Router, handler *handlers.PortalHandler) {
	router.Get("/", handler.GetSnapshot)
	router.Post("/refresh", handler.Refresh)
}

// setupEventRoutes configures event, registration and chat routes
func setupEventRoutes(router fiber.Router, handler *handlers.EventHandler, chat *handlers.MessageHandler) {
	router.Get("/", handler.ListEvents)
	router.Get("/history", handler.History)
	router.Get("/:id", handler.GetEvent)

	// Registration
	router.Post("/:id/registration", handler.Register)
	router.Delete("/:id/registration", handler.Unregister)
	router.Post("/:id/toggle", handler.Toggle)

	// Chat
	router.Get("/:id/messages", chat.EventMessages)
	router.Post("/:id/messages", middleware.ChatLimiter(), chat.SendEventMessage)

	// Admin only
	router.Post("/", middleware.AdminOnly(), handler.CreateEvent)
	router.Get("/:id/attendees", middleware.AdminOnly(), handler.Attendees)
	router.Put("/:id/attendance/:userId", middleware.AdminOnly(), handler.MarkAttendance)
}

// setupMessageRoutes configures inbox routes
func setupMessageRoutes(router fiber.Router, handler *handlers.MessageHandler) {
	router.Get("/", handler.Inbox)
	router.Post("/", middleware.AdminOnly(), middleware.MassMessageLimiter(), handler.SendMass)
}

// setupPaymentRoutes configures dues routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler) {
	router.Get("/my", handler.ListMine)
	router.Post("/", middleware.PaymentReportLimiter(), handler.Report)

	// Finance only
	router.Get("/", middleware.FinanceOnly(), handler.ListAll)
	router.Put("/:id/approve", middleware.FinanceOnly(), handler.Approve)
	router.Put("/:id/reject", middleware.FinanceOnly(), handler.Reject)
}

// setupGraduationRoutes configures graduation routes
func setupGraduationRoutes(router fiber.Router, handler *handlers.GraduationHandler) {
	router.Get("/progress", handler.Progress)
	router.Post("/request", handler.Request)

	// Admin only
	adminRoutes := router.Group("/requests", middleware.AdminOnly())
	adminRoutes.Get("/", handler.ListPending)
	adminRoutes.Put("/:id/approve", handler.Approve)
	adminRoutes.Put("/:id/reject", handler.Reject)
}

// setupLocationRoutes configures the location catalogue
func setupLocationRoutes(router fiber.Router, handler *handlers.LocationHandler) {
	router.Get("/", middleware.CatalogCache(), handler.List)

	// Admin only
	router.Post("/", middleware.AdminOnly(), handler.Create)
	router.Put("/:id", middleware.AdminOnly(), handler.Update)
	router.Put("/:id/toggle", middleware.AdminOnly(), handler.Toggle)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/", handler.GetVolunteerDashboard)
	router.Get("/admin", middleware.StaffOnly(), handler.GetAdminDashboard)
}

// setupUserRoutes configures user management routes (Staff read, Admin write)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)

	adminRoutes := router.Group("", middleware.AdminOnly())
	adminRoutes.Post("/", handler.CreateUser)
	adminRoutes.Put("/:id", handler.UpdateUser)
	adminRoutes.Put("/:id/status", handler.UpdateStatus)
	adminRoutes.Put("/:id/roles", handler.UpdateRoles)
}
