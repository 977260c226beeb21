package FiberConfig

import (
	"TaskFlow/Config"
	"TaskFlow/Controllers"
	"TaskFlow/Models"
	"TaskFlow/TaskBoard"
	"TaskFlow/email"
	"TaskFlow/middleware"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

// Deps are the shared services the routes are built from
type Deps struct {
	DB     *gorm.DB
	Config Config.Config
	Tasks  *TaskBoard.Service
	// Mailer is optional
	Mailer email.Mailer
}

func SetupRoutes(app *fiber.App, deps Deps) {
	auth := middleware.NewJWTAuth(deps.DB, deps.Config.JWTSecret)

	authHandler := Controllers.NewAuthHandler(deps.DB, auth)
	taskHandler := Controllers.NewTaskHandler(deps.Tasks)
	fmsHandler := Controllers.NewFMSHandler(deps.DB, deps.Tasks)
	dashboardHandler := Controllers.NewDashboardHandler(deps.DB, deps.Tasks)
	userHandler := Controllers.NewUserHandler(deps.DB, deps.Mailer)
	notificationHandler := Controllers.NewNotificationHandler(deps.DB)
	logHandler := Controllers.NewLogHandler(deps.Config.LogDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth
	api.Post("/Login", authHandler.Login)
	api.Post("/Logout", authHandler.Logout)
	api.Get("/User", auth.Verify(), authHandler.User)
	api.Get("/validate-token", auth.Verify(), authHandler.ValidateToken)

	api.Get("/dashboard", auth.Verify(), dashboardHandler.GetDashboard)

	// Manage tasks
	tasks := api.Group("/tasks", auth.Verify())
	tasks.Get("/", taskHandler.ListTasks)
	tasks.Post("/status", taskHandler.UpdateTaskStatus)
	tasks.Post("/priority", middleware.RequireRole(Models.RoleAdmin, Models.RoleManager), taskHandler.TogglePriority)
	tasks.Get("/export", middleware.RequireRole(Models.RoleAdmin, Models.RoleManager), taskHandler.ExportTasks)

	// FMS
	fms := api.Group("/fms", auth.Verify())
	fms.Get("/", fmsHandler.ListFMSTasks)
	fms.Post("/import", middleware.RequireRole(Models.RoleAdmin), fmsHandler.ImportFMS)

	// Users
	users := api.Group("/users", auth.Verify())
	users.Get("/motivation", userHandler.GetMotivation)
	users.Post("/motivation", middleware.RequireRole(Models.RoleAdmin, Models.RoleManager), userHandler.SetMotivation)

	// Password reset: requests are public, decisions are admin only
	resets := api.Group("/password-reset")
	resets.Post("/request", userHandler.RequestPasswordReset)
	resets.Get("/", auth.Verify(Models.RoleAdmin), userHandler.ListPasswordResets)
	resets.Post("/:id/approve", auth.Verify(Models.RoleAdmin), userHandler.ApprovePasswordReset)
	resets.Post("/:id/reject", auth.Verify(Models.RoleAdmin), userHandler.RejectPasswordReset)

	// Notifications
	notifications := api.Group("/notifications", auth.Verify())
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Post("/read", notificationHandler.MarkNotificationsRead)
	notifications.Post("/clear", notificationHandler.ClearNotifications)

	// Request logs
	logs := api.Group("/logs", auth.Verify(Models.RoleAdmin))
	logs.Get("/", logHandler.GetLogs)
	logs.Get("/stats", logHandler.GetLogStats)
}

// New builds the app with the global middleware and every route
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    20 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	app.Use(middleware.RequestLogger(deps.Config.LogDir))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, deps)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": err.Error(),
	})
}
