package Controllers

import (
	"TaskFlow/Models"
	"TaskFlow/middleware"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// ListNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}

	notifications := []Models.Notification{}
	if err := h.DB.Where("user_id = ?", auth.UserID).Order("created_at desc, id desc").Find(&notifications).Error; err != nil {
		log.Printf("Error loading notifications for user %d: %v", auth.UserID, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not load notifications")
	}
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	return c.JSON(fiber.Map{"notifications": notifications, "unread": unread})
}

// MarkNotificationsRead flags every notification of the caller as read
func (h *NotificationHandler) MarkNotificationsRead(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.DB.Model(&Models.Notification{}).Where("user_id = ? AND is_read = ?", auth.UserID, false).Update("is_read", true).Error; err != nil {
		log.Printf("Error marking notifications read for user %d: %v", auth.UserID, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not update notifications")
	}
	return respond(c, fiber.StatusOK, statusSuccess, "Notifications marked as read")
}

// ClearNotifications deletes every notification of the caller
func (h *NotificationHandler) ClearNotifications(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.DB.Unscoped().Where("user_id = ?", auth.UserID).Delete(&Models.Notification{}).Error; err != nil {
		log.Printf("Error clearing notifications for user %d: %v", auth.UserID, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not clear notifications")
	}
	return respond(c, fiber.StatusOK, statusSuccess, "Notifications cleared")
}
