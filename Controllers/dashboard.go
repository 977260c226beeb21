package Controllers

import (
	"TaskFlow/Models"
	"TaskFlow/TaskBoard"
	"TaskFlow/middleware"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB    *gorm.DB
	Tasks *TaskBoard.Service
}

func NewDashboardHandler(db *gorm.DB, tasks *TaskBoard.Service) *DashboardHandler {
	return &DashboardHandler{DB: db, Tasks: tasks}
}

// GetDashboard returns the dashboard of the caller's role
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}

	d, err := h.Tasks.Dashboard(c.UserContext(), auth)
	if err != nil {
		return taskError(c, err)
	}

	var motivation Models.UserMotivation
	message := ""
	if err := h.DB.WithContext(c.UserContext()).Where("user_id = ?", auth.UserID).Limit(1).Find(&motivation).Error; err != nil {
		log.Printf("Error loading motivation for user %d: %v", auth.UserID, err)
	} else {
		message = motivation.Message
	}

	return c.JSON(fiber.Map{
		"user":            auth,
		"dashboard":       d,
		"completion_rate": d.Stats.CompletionRate(),
		"motivation":      message,
	})
}
